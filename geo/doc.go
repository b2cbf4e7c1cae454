// Package geo provides coordinate parsing and great-circle math for
// shipment routes.
//
// Locations arrive as free text and may use either DMS notation
// (12°46'50.4"N 77°29'50.2"E) or a decimal pair (12.78, 77.49).
// ParseCoordinates handles both; everything downstream works on the
// resulting Coordinates pair.
package geo
