package version_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fschiettecatte/mps/pkg/version"
)

var _ = Describe("Version creation and getters", func() {
	const (
		testPackage     = "mpsd"
		testDescription = "information retrieval server"
		testBuild       = "abc123def"
		testRelease     = "v1.2.3"
		testAuthor      = "Test Author"
		testPrefix      = "mps"
	)

	It("creates a version instance", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v).ToNot(BeNil())
		Expect(v.GetPackage()).To(Equal(testPackage))
		Expect(v.GetRelease()).To(Equal(testRelease))
	})

	It("parses a well-formed date", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetTime().UTC().Format(time.RFC3339)).To(Equal(testTime))
	})

	It("falls back to now() for an unparseable date", func() {
		before := time.Now()
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, "not-a-date", testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		after := time.Now()
		Expect(v.GetTime()).To(BeTemporally(">=", before))
		Expect(v.GetTime()).To(BeTemporally("<=", after))
	})

	It("derives the package name from the root path when empty", func() {
		v := version.NewVersion(version.License_MIT, "", testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetPackage()).To(ContainSubstring("version_test"))
	})

	It("renders a one-line header and a multi-line info block", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetHeader()).To(ContainSubstring(testRelease))
		Expect(v.GetInfo()).To(ContainSubstring(testBuild))
		Expect(v.GetInfo()).To(ContainSubstring(testAuthor))
	})

	DescribeTable("license name rendering",
		func(l version.License, substr string) {
			v := version.NewVersion(l, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
			Expect(v.GetLicenseName()).To(ContainSubstring(substr))
		},
		Entry("MIT", version.License_MIT, "MIT License"),
		Entry("GPLv3", version.License_GNU_GPL_v3, "GENERAL PUBLIC LICENSE"),
		Entry("Apache 2", version.License_Apache_v2, "Apache License"),
	)

	It("accepts a satisfied Go version constraint", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.CheckGo("1.0")).To(BeNil())
	})

	It("rejects an unsatisfiable Go version constraint", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.CheckGo("99.0")).ToNot(BeNil())
	})

	It("rejects an empty constraint", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.CheckGo("")).ToNot(BeNil())
	})
})
