package enums

import "fmt"

// DeviceStatus tracks whether a device should receive notifications.
type DeviceStatus string

const (
	DeviceStatusActive   DeviceStatus = "active"
	DeviceStatusInactive DeviceStatus = "inactive"
)

var validDeviceStatuses = []DeviceStatus{
	DeviceStatusActive,
	DeviceStatusInactive,
}

func (s DeviceStatus) IsValid() bool {
	for _, candidate := range validDeviceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeviceStatus converts raw strings into DeviceStatus.
func ParseDeviceStatus(value string) (DeviceStatus, error) {
	for _, candidate := range validDeviceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid device status %q", value)
}
