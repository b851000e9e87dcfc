package knmap

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/status"
)

// Builder is the external bundle-build collaborator: it compiles a scene
// into an opaque bundle file at outPath. Scene compilation itself is out of
// this tool's hands.
type Builder interface {
	BuildBundle(platform config.Platform, scenePath string, outPath string) error
}

type BuildResult struct {
	MapName  string
	Platform config.Platform
	OutPath  string
	Err      error
}

// BuildAll builds every selected entry for every requested platform.
// Failures are per entry/platform: a map with a missing resource is reported
// and skipped, the loop keeps going. Results come back in build order.
func (r *Registry) BuildAll(platforms []config.Platform, builder Builder, projectDir string) []BuildResult {
	results := make([]BuildResult, 0)
	selected := r.SelectedEntries()

	buildDir := filepath.Join(projectDir, r.cfg.BuildDirName)
	if err := os.MkdirAll(buildDir, os.ModePerm); err != nil {
		err = errors.Wrapf(err, "Failed to create build directory %q", buildDir)
		status.Error("%v", err)
		return append(results, BuildResult{Err: err})
	}

	total := len(platforms) * len(selected)
	done := 0

	for _, platform := range platforms {
		for _, e := range selected {
			result := r.buildOne(platform, e, builder, buildDir)
			if result.Err != nil {
				status.Error("Map %q (%v): %v", e.Name, platform, result.Err)
			} else {
				status.Info("Built %q", result.OutPath)
			}
			done++
			status.Progress(float32(done)/float32(total), "Built %d of %d bundles", done, total)
			results = append(results, result)
		}
	}
	return results
}

func (r *Registry) buildOne(platform config.Platform, e *Entry, builder Builder, buildDir string) BuildResult {
	result := BuildResult{MapName: e.Name, Platform: platform}

	identifier, err := BundleIdentifier(e, platform)
	if err != nil {
		result.Err = err
		return result
	}

	if e.Name == "" {
		result.Err = errors.Wrapf(ErrMissingResource, "map has no name")
		return result
	}
	if e.Scene == nil {
		result.Err = errors.Wrapf(ErrMissingResource, "map %q has no scene", e.Name)
		return result
	}
	if e.Image == nil {
		result.Err = errors.Wrapf(ErrMissingResource, "map %q has no loadscreen image", e.Name)
		return result
	}

	outPath := filepath.Join(buildDir, identifier+r.cfg.BundleExtension)

	if err := builder.BuildBundle(platform, e.Scene.Path(), outPath); err != nil {
		result.Err = errors.Wrapf(err, "Bundle build failed for map %q", e.Name)
		return result
	}

	header, err := HeaderForEntry(r.cfg, e, r.creator, time.Now().Unix())
	if err != nil {
		result.Err = err
		return result
	}

	if err := PatchBundle(r.cfg, outPath, header); err != nil {
		result.Err = errors.Wrapf(err, "Failed to patch bundle for map %q", e.Name)
		return result
	}

	result.OutPath = outPath
	return result
}
