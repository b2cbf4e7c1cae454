package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	lib "github.com/colisselect/shipment-tracking"
	"github.com/colisselect/shipment-tracking/config"
	"github.com/colisselect/shipment-tracking/feed"
)

func main() {
	shipmentID := flag.String("shipment", "", "shipment id to fetch from the shipment API")
	origin := flag.String("origin", "", "origin coordinates (bypasses the shipment API)")
	destination := flag.String("destination", "", "destination coordinates (bypasses the shipment API)")
	status := flag.String("status", "in_transit", "shipment status for -origin/-destination runs")
	pickupDate := flag.String("pickupDate", "", "scheduled pickup date (YYYY-MM-DD)")
	pickupTime := flag.String("pickupTime", "", "scheduled pickup time (HH:MM)")
	arrival := flag.String("arrival", "", "scheduled arrival date-time")
	serve := flag.Bool("serve", false, "expose /api/health and /api/tracking on the configured port")
	runFor := flag.Duration("for", 0, "stop after this duration (0 = run until SIGINT/SIGTERM)")
	flag.Parse()

	lib.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		panic(err)
	}

	shipment, err := resolveShipment(*shipmentID, *origin, *destination, *status, *pickupDate, *pickupTime, *arrival)
	if err != nil {
		panic(err)
	}

	session, err := lib.NewSession(shipment, lib.OptionsFromConfig())
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.Start(ctx)
	lib.RegisterSession(session)
	defer lib.UnregisterSession(shipment.ID)

	transport := session.Transport()
	log.Printf("transport: %s %s (max %.0f km/h)", transport.Icon, transport.Name, transport.MaxSpeedKMH)

	go func() {
		for tick := range session.Ticks() {
			fmt.Printf("%s  %6.2f%%  %s  [%s]  %s\n",
				tick.At.Format("15:04:05"), tick.Progress, tick.Position.Format(),
				tick.SourceName, tick.Remaining)
		}
	}()

	if *serve {
		lib.StartServer()
		if *runFor == 0 {
			lib.HandleGracefulShutdown()
			cancel()
			session.Close()
			log.Printf("session closed")
			return
		}
	}

	wait(*runFor)
	cancel()
	session.Close()
	log.Printf("session closed")
}

func resolveShipment(id, origin, destination, status, pickupDate, pickupTime, arrival string) (*feed.Shipment, error) {
	if origin != "" && destination != "" {
		sid := id
		if sid == "" {
			sid = "local"
		}
		return &feed.Shipment{
			ID:          sid,
			Origin:      origin,
			Destination: destination,
			PickupDate:  pickupDate,
			PickupTime:  pickupTime,
			ArrivalTime: arrival,
			Status:      status,
		}, nil
	}
	if id == "" {
		return nil, fmt.Errorf("either -shipment or both -origin and -destination are required")
	}
	timeout := time.Duration(config.Config.Backend.TimeoutMS) * time.Millisecond
	client := feed.NewShipmentClient(config.Config.Backend.ShipmentURL, timeout)
	return client.Get(id)
}

func wait(runFor time.Duration) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	if runFor > 0 {
		select {
		case <-sigs:
		case <-time.After(runFor):
		}
		return
	}
	<-sigs
}
