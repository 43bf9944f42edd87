package server

import (
	"github.com/go-playground/validator/v10"

	"github.com/investi-gate/portal-sub000/internal/core/model"
)

type AnalyzeRequest struct {
	Type string `json:"type"`
}

type CreateEntityRequest struct {
	ID             string  `json:"id" validate:"omitempty,max=128"`
	FacialDataID   *string `json:"facial_data_id"`
	TextDataID     *string `json:"text_data_id"`
	ImageDataID    *string `json:"image_data_id"`
	ImagePortionID *string `json:"image_portion_id"`
}

func (r CreateEntityRequest) Entity() model.Entity {
	return model.Entity{
		ID:             r.ID,
		FacialDataID:   deref(r.FacialDataID),
		TextDataID:     deref(r.TextDataID),
		ImageDataID:    deref(r.ImageDataID),
		ImagePortionID: deref(r.ImagePortionID),
	}
}

// deref drops empty strings so "" and null mean the same thing.
func deref(ref *string) *string {
	if ref == nil {
		return nil
	}
	return model.Ref(*ref)
}

// RelationRequest is the body of both create and update. The id is taken
// from the path on update.
type RelationRequest struct {
	ID                string  `json:"id" validate:"omitempty,max=128"`
	Predicate         string  `json:"predicate" validate:"required,max=256"`
	SubjectEntityID   *string `json:"subject_entity_id"`
	SubjectRelationID *string `json:"subject_relation_id"`
	ObjectEntityID    *string `json:"object_entity_id"`
	ObjectRelationID  *string `json:"object_relation_id"`
}

func (r RelationRequest) Relation() model.Relation {
	return model.Relation{
		ID:        r.ID,
		Predicate: r.Predicate,
		Subject:   model.JoinRef(r.SubjectEntityID, r.SubjectRelationID),
		Object:    model.JoinRef(r.ObjectEntityID, r.ObjectRelationID),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateEntityRequest, CreateEntityRequest{})
	v.RegisterStructValidation(validateRelationRequest, RelationRequest{})
	return v
}

func validateEntityRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateEntityRequest)
	if !req.Entity().HasAnyType() {
		sl.ReportError(req.FacialDataID, "facial_data_id", "FacialDataID", "one_type_ref", "")
	}
}

func validateRelationRequest(sl validator.StructLevel) {
	rel := sl.Current().Interface().(RelationRequest).Relation()
	if !rel.Subject.Valid() {
		sl.ReportError(rel.Subject, "subject", "Subject", "exactly_one_ref", "")
	}
	if !rel.Object.Valid() {
		sl.ReportError(rel.Object, "object", "Object", "exactly_one_ref", "")
	}
}
