package domain

import (
	"slices"
	"time"
)

// PluginMetadata describes a plugin loaded by the server.
type PluginMetadata struct {
	Name    string
	Version string
	Authors []string // sorted, unique
	Website string
}

// NewPluginMetadata normalizes the author list into a sorted set.
func NewPluginMetadata(name, version string, authors []string, website string) PluginMetadata {
	a := slices.Clone(authors)
	slices.Sort(a)
	return PluginMetadata{Name: name, Version: version, Authors: slices.Compact(a), Website: website}
}

func (p PluginMetadata) Equal(o PluginMetadata) bool {
	return p.Name == o.Name && p.Version == o.Version && p.Website == o.Website && slices.Equal(p.Authors, o.Authors)
}

// Status reports the server build.
type Status struct {
	Brand          string
	Version        string
	VersionFull    string
	CommitHash     string
	BuildTimestamp time.Time
}
