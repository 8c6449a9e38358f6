package sample

import "strings"

// Platform is the closed live-streaming platform enumeration
type Platform string

const (
	PlatformDouyin        Platform = "抖音"
	PlatformKuaishou      Platform = "快手"
	PlatformTaobao        Platform = "淘宝"
	PlatformChannels      Platform = "视频号"
	PlatformPinduoduo     Platform = "拼多多"
	PlatformPrivateDomain Platform = "私域直播"
	PlatformOther         Platform = "其他"
)

var platforms = []Platform{
	PlatformDouyin,
	PlatformKuaishou,
	PlatformTaobao,
	PlatformChannels,
	PlatformPinduoduo,
	PlatformPrivateDomain,
	PlatformOther,
}

// Platforms returns every platform in display order
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// ParsePlatform matches s exactly (after trimming) against the enumeration
func ParsePlatform(s string) (Platform, bool) {
	s = strings.TrimSpace(s)
	for _, p := range platforms {
		if string(p) == s {
			return p, true
		}
	}
	return PlatformOther, false
}

func (p Platform) Valid() bool {
	_, ok := ParsePlatform(string(p))
	return ok
}

func (p Platform) String() string { return string(p) }

// JoinPlatforms renders a platform set the way spreadsheets show it
func JoinPlatforms(ps []Platform) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
