package model

import "time"

// Entity is a node of the investigation graph. The type references point at
// payload records (facial data, text, images, image regions) owned by other
// services; analytics only look at whether a slot is set.
type Entity struct {
	ID             string    `json:"id"`
	FacialDataID   *string   `json:"facial_data_id"`
	TextDataID     *string   `json:"text_data_id"`
	ImageDataID    *string   `json:"image_data_id"`
	ImagePortionID *string   `json:"image_portion_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (e Entity) HasFacialData() bool   { return isSet(e.FacialDataID) }
func (e Entity) HasTextData() bool     { return isSet(e.TextDataID) }
func (e Entity) HasImageData() bool    { return isSet(e.ImageDataID) }
func (e Entity) HasImagePortion() bool { return isSet(e.ImagePortionID) }

// HasAnyType reports whether at least one type payload is referenced.
func (e Entity) HasAnyType() bool {
	return e.HasFacialData() || e.HasTextData() || e.HasImageData() || e.HasImagePortion()
}

func isSet(ref *string) bool {
	return ref != nil && *ref != ""
}

// Ref returns a pointer to id, or nil for the empty string.
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
