package ws

import (
	"fmt"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Channel identifies a fan-out destination. Three families exist:
// "user:{id}" for a customer's or agent's own parcels, "role:admin" for
// the operations firehose, and "parcel:{trackingID}" for a single parcel.
type Channel string

const AdminChannel Channel = "role:admin"

func UserChannel(userID kernel.UUID) Channel {
	return Channel("user:" + userID.String())
}

func ParcelChannel(trackingID kernel.TrackingID) Channel {
	return Channel("parcel:" + trackingID.String())
}

// ParseChannel validates a client-supplied channel name.
func ParseChannel(raw string) (Channel, error) {
	switch {
	case raw == string(AdminChannel):
		return AdminChannel, nil
	case strings.HasPrefix(raw, "user:"):
		if _, err := kernel.UUIDFromString(strings.TrimPrefix(raw, "user:")); err != nil {
			return "", errs.NewValueIsInvalidErrorWithCause("channel", err)
		}
		return Channel(raw), nil
	case strings.HasPrefix(raw, "parcel:"):
		if _, err := kernel.TrackingIDFromString(strings.TrimPrefix(raw, "parcel:")); err != nil {
			return "", errs.NewValueIsInvalidErrorWithCause("channel", err)
		}
		return Channel(raw), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("unknown channel %q", raw))
	}
}
