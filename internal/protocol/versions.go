package protocol

import "sort"

// releases maps each supported protocol version to the release that
// introduced it.
var releases = map[int32]string{
	107: "1.9",
	108: "1.9.1",
	109: "1.9.2",
	110: "1.9.4",
	210: "1.10",
	315: "1.11",
	316: "1.11.2",
	335: "1.12",
	338: "1.12.1",
	340: "1.12.2",
	393: "1.13",
	401: "1.13.1",
	404: "1.13.2",
	477: "1.14",
	480: "1.14.1",
	485: "1.14.2",
	490: "1.14.3",
	498: "1.14.4",
	573: "1.15",
	575: "1.15.1",
	578: "1.15.2",
}

// SupportedProtocolVersions lists every version the catalog describes, ascending.
var SupportedProtocolVersions = func() []int32 {
	out := make([]int32, 0, len(releases))
	for v := range releases {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}()

const (
	EarliestProtocolVersion int32 = 107
	LatestProtocolVersion   int32 = 578
)

func IsSupported(version int32) bool {
	_, ok := releases[version]
	return ok
}

// ReleaseName returns the release string for version, or "" when unknown.
func ReleaseName(version int32) string {
	return releases[version]
}
