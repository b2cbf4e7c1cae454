package progress

// StatusDelivered is the external status that pins the journey at 100%.
const StatusDelivered = "delivered"

// StatusProgress maps an external shipment status to a coarse progress
// seed, used only when no cache, backend record or push update exists
// yet. The reconciler's sources take over from there.
func StatusProgress(status string) float64 {
	switch status {
	case "pending_confirmation":
		return 0
	case "processing":
		return 10
	case "picked_up":
		return 30
	case "delayed":
		return 50
	case "in_transit":
		return 70
	case StatusDelivered:
		return 100
	default:
		return 0
	}
}
