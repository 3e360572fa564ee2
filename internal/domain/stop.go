package domain

import "time"

// StopKind discriminates real delivery stops from the synthetic
// "start from current position" entry.
type StopKind string

const (
	KindDelivery StopKind = "delivery"
	KindLocation StopKind = "location"
)

// StopStatus tracks delivery progress for a single stop.
type StopStatus string

const (
	StatusPending   StopStatus = "pending"
	StatusDelivered StopStatus = "delivered"
	StatusAttempted StopStatus = "attempted"
	StatusSkipped   StopStatus = "skipped"
)

type PackageType string

const (
	PackageBox        PackageType = "box"
	PackageEnvelope   PackageType = "envelope"
	PackagePlasticBag PackageType = "plastic_bag"
	PackageCustom     PackageType = "custom_sized"
	PackageUnknown    PackageType = "unknown"
)

type StopType string

const (
	StopHouse     StopType = "house"
	StopApartment StopType = "apartment"
	StopBusiness  StopType = "business"
	StopLocker    StopType = "locker"
	StopUnknown   StopType = "unknown"
)

// LocationStopNumber is the reserved stop number of the location
// pseudo-stop. Extracted delivery stops always number from 1.
const LocationStopNumber = 0

// Represents a single stop on the courier's route: either one extracted
// delivery address, or the synthetic starting-location entry.
//
// OriginalStopNumber is the number printed next to the stop in the source
// screenshots. It is the stable identity used for deduplication, edits and
// reconciliation; position in the route slice carries no identity.
type Stop struct {
	OriginalStopNumber int
	Street             string
	City               string
	State              string
	Zip                string
	Label              string
	PackageType        PackageType
	StopType           StopType
	TBA                string
	PackageLabel       string
	DeliveryWindowEnd  string // "HH:MM"; empty means no deadline
	IsPriority         *bool
	Kind               StopKind
	Status             StopStatus
	CompletedAt        *time.Time
	IsCurrentStop      bool
	Coords             *Coordinates // set for the location stop only
}

// NewLocationStop builds the pseudo-stop representing the courier's
// current position. It is created already resolved so it can never
// become the current stop.
func NewLocationStop(coords Coordinates) Stop {
	c := coords
	return Stop{
		OriginalStopNumber: LocationStopNumber,
		Street:             "Current Location",
		Kind:               KindLocation,
		Status:             StatusDelivered,
		Coords:             &c,
	}
}

// Address renders the postal address as a single comma-separated line,
// skipping empty components.
func (s Stop) Address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{s.Street, s.City, s.State, s.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// Pending reports whether the stop still needs a visit. An unset status
// counts as pending so stops from older snapshots behave correctly.
func (s Stop) Pending() bool {
	return s.Status == StatusPending || s.Status == ""
}

// ParseStopStatus maps free-form status text to a StopStatus.
func ParseStopStatus(v string) (StopStatus, bool) {
	switch StopStatus(v) {
	case StatusPending, StatusDelivered, StatusAttempted, StatusSkipped:
		return StopStatus(v), true
	}
	return "", false
}

// ParsePackageType normalizes provider output to a PackageType,
// defaulting to unknown.
func ParsePackageType(v string) PackageType {
	switch PackageType(v) {
	case PackageBox, PackageEnvelope, PackagePlasticBag, PackageCustom:
		return PackageType(v)
	}
	return PackageUnknown
}

// ParseStopType normalizes provider output to a StopType,
// defaulting to unknown.
func ParseStopType(v string) StopType {
	switch StopType(v) {
	case StopHouse, StopApartment, StopBusiness, StopLocker:
		return StopType(v)
	}
	return StopUnknown
}
