package fulfillment

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// ErrMissingCourierInfo is returned when a courier is incomplete or absent
// where the shipping status requires one.
var ErrMissingCourierInfo = fmt.Errorf("%w: courier info is missing", errs.ErrIllegalTransition)

// CourierInfo is the courier attached to a parcel. All three fields are set or
// the courier is absent; there is no partial courier.
type CourierInfo struct {
	name       string
	contact    string
	trackingID string
}

// NewCourierInfo requires every field.
func NewCourierInfo(name, contact, trackingID string) (CourierInfo, error) {
	c := CourierInfo{
		name:       strings.TrimSpace(name),
		contact:    strings.TrimSpace(contact),
		trackingID: strings.TrimSpace(trackingID),
	}
	if c.name == "" || c.contact == "" || c.trackingID == "" {
		return CourierInfo{}, fmt.Errorf("%w: name, contact and tracking id are all required", ErrMissingCourierInfo)
	}
	return c, nil
}

// ParseCourierInfo reads the three form fields of a courier. All blank means no
// courier and yields nil; a partially filled courier is rejected.
func ParseCourierInfo(name, contact, trackingID string) (*CourierInfo, error) {
	if strings.TrimSpace(name+contact+trackingID) == "" {
		return nil, nil
	}
	c, err := NewCourierInfo(name, contact, trackingID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (c CourierInfo) Name() string       { return c.name }
func (c CourierInfo) Contact() string    { return c.contact }
func (c CourierInfo) TrackingID() string { return c.trackingID }

// IsComplete reports whether every field is set. Only the zero value is incomplete.
func (c CourierInfo) IsComplete() bool {
	return c.name != "" && c.contact != "" && c.trackingID != ""
}

func (c CourierInfo) String() string {
	return fmt.Sprintf("%s (%s) #%s", c.name, c.contact, c.trackingID)
}
