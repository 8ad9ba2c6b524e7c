package protocol

// ReleaseInfo describes one downloadable release of the server or client
// software. It is a value type: pass it by copy, never share the map.
type ReleaseInfo struct {
	Version string            `json:"version"`
	Assets  map[string]string `json:"assets"`
}

// Clone returns an independent copy, including the asset map.
func (r ReleaseInfo) Clone() ReleaseInfo {
	assets := make(map[string]string, len(r.Assets))
	for name, url := range r.Assets {
		assets[name] = url
	}
	return ReleaseInfo{Version: r.Version, Assets: assets}
}
