// SPDX-License-Identifier: MIT
//
// Package build holds the build metadata (name, timestamp, commit, version)
// embedded with -ldflags, for example:
//
//	go build -ldflags "-X scope/pkg/build.buildName=scope -X scope/pkg/build.buildVersion=0.1.0 ..."
//
// Development builds carry no flags at all and fall back to a "dev" identity.
package build

import "fmt"

const (
	defaultName        = "scope"
	defaultDescription = "Reverse audio oscilloscope"
	devValue           = "dev"
)

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:        defaultName,
		Description: defaultDescription,
		Time:        devValue,
		Commit:      devValue,
		Version:     devValue,
	}
)

// Initialize validates and copies the ldflags variables into the build
// information. A binary built without any flags is a development build and
// keeps the defaults; a release build must set every flag, otherwise an
// error naming the first missing one is returned.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		return nil
	}
	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// IsDev reports whether the binary was built without release flags.
func IsDev() bool {
	return buildFlags.Version == devValue
}

// String renders a one-line version banner.
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}
