package services

import "courier-route-service/internal/domain"

// EditOp is a closed set of single-field edits on a delivery stop.
// One constructor exists per editable field, so adding a field means
// adding a constructor rather than threading a field-name string
// through the API.
type EditOp interface {
	apply(*domain.Stop)
}

type editLabel string

func (v editLabel) apply(s *domain.Stop) { s.Label = string(v) }

// EditLabel sets the free-text user note.
func EditLabel(v string) EditOp { return editLabel(v) }

type editPackageType domain.PackageType

func (v editPackageType) apply(s *domain.Stop) { s.PackageType = domain.PackageType(v) }

func EditPackageType(v domain.PackageType) EditOp { return editPackageType(v) }

type editPackageLabel string

func (v editPackageLabel) apply(s *domain.Stop) { s.PackageLabel = string(v) }

func EditPackageLabel(v string) EditOp { return editPackageLabel(v) }

type editTBA string

func (v editTBA) apply(s *domain.Stop) { s.TBA = string(v) }

func EditTBA(v string) EditOp { return editTBA(v) }

type editStopType domain.StopType

func (v editStopType) apply(s *domain.Stop) { s.StopType = domain.StopType(v) }

func EditStopType(v domain.StopType) EditOp { return editStopType(v) }

type editDeliveryWindowEnd string

func (v editDeliveryWindowEnd) apply(s *domain.Stop) { s.DeliveryWindowEnd = string(v) }

// EditDeliveryWindowEnd sets the "HH:MM" deadline; empty clears it.
func EditDeliveryWindowEnd(v string) EditOp { return editDeliveryWindowEnd(v) }

type editPriority struct{ v *bool }

func (e editPriority) apply(s *domain.Stop) {
	if e.v == nil {
		s.IsPriority = nil
		return
	}
	v := *e.v
	s.IsPriority = &v
}

// EditPriority sets or clears the priority flag; nil clears.
func EditPriority(v *bool) EditOp { return editPriority{v: v} }
