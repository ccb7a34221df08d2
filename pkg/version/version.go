/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package version carries the build identity (package name, release tag,
// commit, build date, author, license) that both binaries print for
// `--version` and stamp into their startup log line.
package version

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	liberr "github.com/fschiettecatte/mps/pkg/errors"
)

// Version exposes the build identity of a running binary.
type Version interface {
	GetPackage() string
	GetRootPackagePath() string
	GetDescription() string
	GetDate() string
	GetTime() time.Time
	GetCommit() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string

	GetLicenseName() string
	GetLicenseLegal() string
	GetLicenseBoiler() string

	GetHeader() string
	GetInfo() string

	// CheckGo verifies the running Go toolchain satisfies a "major.minor"
	// constraint such as "1.21".
	CheckGo(constraint string) liberr.Error
}

type version struct {
	license     License
	pkg         string
	description string
	date        string
	commit      string
	release     string
	author      string
	prefix      string
	rootPath    string
}

// NewVersion builds a Version. root is any value from the caller's own
// package, used through reflection to recover the module path;
// numSubPackage walks that path up by that many directory components
// first (0 keeps the package the root value lives in).
func NewVersion(license License, pkg, description, date, commit, release, author, prefix string, root interface{}, numSubPackage int) Version {
	path := reflect.TypeOf(root).PkgPath()
	for i := 0; i < numSubPackage; i++ {
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			path = path[:idx]
		}
	}

	if pkg == "" || pkg == "noname" {
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			pkg = path[idx+1:]
		} else {
			pkg = path
		}
	}

	return &version{
		license:     license,
		pkg:         pkg,
		description: description,
		date:        date,
		commit:      commit,
		release:     release,
		author:      author,
		prefix:      prefix,
		rootPath:    path,
	}
}

func (v *version) GetPackage() string         { return v.pkg }
func (v *version) GetRootPackagePath() string { return v.rootPath }
func (v *version) GetDescription() string     { return v.description }
func (v *version) GetDate() string            { return v.date }
func (v *version) GetCommit() string          { return v.commit }
func (v *version) GetRelease() string         { return v.release }
func (v *version) GetAuthor() string          { return v.author }
func (v *version) GetPrefix() string          { return v.prefix }

func (v *version) GetTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v.date); err == nil {
			return t
		}
	}
	return time.Now()
}

func (v *version) GetLicenseName() string   { return v.license.Name() }
func (v *version) GetLicenseLegal() string  { return v.license.Legal() }
func (v *version) GetLicenseBoiler() string { return v.license.Boiler() }

func (v *version) GetHeader() string {
	return fmt.Sprintf("%s %s (%s) — %s", v.pkg, v.release, v.commit, v.description)
}

func (v *version) GetInfo() string {
	return fmt.Sprintf(
		"package: %s\nrelease: %s\ncommit: %s\nbuilt: %s\nauthor: %s\nlicense: %s\ngo: %s",
		v.pkg, v.release, v.commit, v.date, v.author, v.GetLicenseName(), runtime.Version(),
	)
}

var goVersionPattern = regexp.MustCompile(`^go(\d+)\.(\d+)`)

func (v *version) CheckGo(constraint string) liberr.Error {
	if constraint == "" {
		return ErrorParamEmpty.Error()
	}

	m := goVersionPattern.FindStringSubmatch(runtime.Version())
	if m == nil {
		return ErrorGoVersionRuntime.Error(fmt.Errorf("unparseable runtime version %q", runtime.Version()))
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])

	parts := strings.SplitN(constraint, ".", 2)
	wantMajor, err := strconv.Atoi(parts[0])
	if err != nil {
		return ErrorGoVersionInit.Error(err)
	}
	wantMinor := 0
	if len(parts) == 2 {
		if wantMinor, err = strconv.Atoi(parts[1]); err != nil {
			return ErrorGoVersionInit.Error(err)
		}
	}

	if major > wantMajor || (major == wantMajor && minor >= wantMinor) {
		return nil
	}
	return ErrorGoVersionConstraint.Error(fmt.Errorf("running go%d.%d, need >= go%d.%d", major, minor, wantMajor, wantMinor))
}
