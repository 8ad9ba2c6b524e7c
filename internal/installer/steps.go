package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"streamctl/internal/protocol"
)

// HTTPSteps downloads release assets into a staging directory. It is the
// default Steps implementation; platform packaging beyond the download is
// handled by the host installer scripts.
type HTTPSteps struct {
	Client     *http.Client
	StagingDir string

	// AssetName selects which asset of a release to fetch, e.g. the
	// platform-specific archive. Empty means take the only asset.
	AssetName string
}

var _ Steps = (*HTTPSteps)(nil)

// InstallServer implements Steps.
func (s *HTTPSteps) InstallServer(ctx context.Context, release protocol.ReleaseInfo, sessionVersion string, progress ProgressFunc) error {
	if sessionVersion != "" && !UpdateAvailable(sessionVersion, release) {
		progress(fmt.Sprintf("server %s already up to date", sessionVersion), 1)
		return nil
	}
	return s.fetch(ctx, release, "server", progress)
}

// InstallClient implements Steps.
func (s *HTTPSteps) InstallClient(ctx context.Context, release protocol.ReleaseInfo, progress ProgressFunc) error {
	return s.fetch(ctx, release, "client", progress)
}

func (s *HTTPSteps) fetch(ctx context.Context, release protocol.ReleaseInfo, component string, progress ProgressFunc) error {
	name, url, err := s.pickAsset(release)
	if err != nil {
		return err
	}

	progress(fmt.Sprintf("downloading %s %s", component, release.Version), 0)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", name, resp.Status)
	}

	if err := os.MkdirAll(s.StagingDir, 0o755); err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	dest := filepath.Join(s.StagingDir, name)
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	copier := &progressWriter{
		dst:      out,
		total:    resp.ContentLength,
		label:    fmt.Sprintf("downloading %s %s", component, release.Version),
		progress: progress,
	}
	if _, err := io.Copy(copier, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	progress(fmt.Sprintf("%s %s downloaded to %s", component, release.Version, dest), 1)
	return nil
}

func (s *HTTPSteps) pickAsset(release protocol.ReleaseInfo) (name, url string, err error) {
	if s.AssetName != "" {
		url, ok := release.Assets[s.AssetName]
		if !ok {
			return "", "", fmt.Errorf("release %s has no asset %q", release.Version, s.AssetName)
		}
		return s.AssetName, url, nil
	}
	for name, url := range release.Assets {
		return name, url, nil
	}
	return "", "", fmt.Errorf("release %s has no assets", release.Version)
}

// progressWriter reports download progress as bytes flow through. When the
// total size is unknown it holds the fraction at zero rather than guess.
type progressWriter struct {
	dst      io.Writer
	total    int64
	written  int64
	label    string
	progress ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.written += int64(n)
	if w.total > 0 {
		w.progress(w.label, float64(w.written)/float64(w.total))
	}
	return n, err
}
