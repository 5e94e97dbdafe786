// Package domain models straight-line distance lookups between two named places.
//
// # Pipeline
//
// A lookup flows in one direction:
//
//	place names  →  coordinates  →  great-circle distance  →  report
//
// Each place name is resolved by a [Geocoder] exactly once. The provider's
// first candidate is taken as-is (first-match policy), so an ambiguous name
// such as "Springfield" resolves to whatever the provider ranks highest.
//
// # Failure kinds
//
//	not_found       provider answered but returned zero candidates
//	provider_error  provider answered with a non-2xx status or an unusable body
//	network_error   the request never completed (DNS, refused, timeout)
//	invalid_query   the place name was blank; no request was made
//
// Geocoders report failures as a [*GeocodeError]; callers recover the kind
// with [KindOf] or errors.As.
//
// # Distance model
//
// [DistanceKm] applies the haversine formula on a sphere of radius
// [EarthRadiusKm]. The sphere is an approximation of the WGS-84 ellipsoid;
// expect errors of up to ~0.5% on long routes.
//
// # Reports
//
// A [DistanceReport] carries a distance if and only if both places resolved.
// Otherwise it lists every place that failed, with its kind. Reports are
// immutable values; nothing is persisted.
package domain
