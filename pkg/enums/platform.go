package enums

import "fmt"

// Platform identifies the client installation kind for a registered device.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

var validPlatforms = []Platform{
	PlatformAndroid,
	PlatformIOS,
	PlatformWeb,
}

// IsValid checks whether the given platform matches the canonical enum.
func (p Platform) IsValid() bool {
	for _, candidate := range validPlatforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlatform converts raw strings into Platform.
func ParsePlatform(value string) (Platform, error) {
	for _, candidate := range validPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", value)
}
