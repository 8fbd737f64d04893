// Package version reports the build version, set through -ldflags or read
// from the VCS information Go embeds in the binary.
package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitTag    string
	GitBranch string
)

const shortHash = 12

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Info describes the running binary
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Compiler  string `json:"compiler"`
	Tag       string `json:"tag,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Source    string `json:"source,omitempty"`
	Hash      string `json:"hash,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the tag, the branch, or the short commit hash, in that
// order of preference, or "dev"
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if GitBranch != "" {
		return GitBranch
	}
	if hash := setting("vcs.revision"); hash != "" {
		if len(hash) > shortHash {
			hash = hash[:shortHash]
		}
		return hash
	}
	return "dev"
}

// Get returns the build information for the named executable
func Get(execName string) Info {
	info := Info{
		Name:     execName,
		Version:  Version(),
		Compiler: runtime.Version(),
		Tag:      GitTag,
		Branch:   GitBranch,
	}
	if build, ok := debug.ReadBuildInfo(); ok {
		info.Source = build.Main.Path
	}
	info.Hash = setting("vcs.revision")
	info.BuildTime = setting("vcs.time")
	info.Modified = setting("vcs.modified") == "true"
	if goos, goarch := setting("GOOS"), setting("GOARCH"); goos != "" && goarch != "" {
		info.Platform = goos + "/" + goarch
	}
	return info
}

// JSON returns the build information as indented JSON, for --version
func JSON(execName string) []byte {
	data, err := json.MarshalIndent(Get(execName), "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func setting(key string) string {
	if build, ok := debug.ReadBuildInfo(); ok {
		for _, s := range build.Settings {
			if s.Key == key {
				return s.Value
			}
		}
	}
	return ""
}
