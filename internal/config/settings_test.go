package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Run settings")
}

var _ = Describe("Validate", func() {
	valid := func() config.RunSettings {
		s := config.Default
		s.MongoURI = "mongodb://localhost/ml"
		s.FilemakerUsername = "u"
		s.FilemakerPassword = "p"
		return s
	}

	It("accepts a fully populated settings value", func() {
		Expect(valid().Validate()).NotTo(HaveOccurred())
	})

	It("rejects a missing required field", func() {
		s := valid()
		s.MongoURI = ""
		Expect(s.Validate()).To(HaveOccurred())
	})

	It("rejects a non-positive solver worker count", func() {
		s := valid()
		s.SolverWorkers = 0
		Expect(s.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("FromEnvironment", func() {
	It("merges ML_MAX_SOLVE_SECONDS onto the default duration", func() {
		os.Setenv("MONGODB_URI", "mongodb://localhost/ml")
		os.Setenv("ML_USER_FILEMAKER_USERNAME", "u")
		os.Setenv("ML_USER_FILEMAKER_PASSWORD", "p")
		os.Setenv("ML_MAX_SOLVE_SECONDS", "45")
		defer func() {
			os.Unsetenv("MONGODB_URI")
			os.Unsetenv("ML_USER_FILEMAKER_USERNAME")
			os.Unsetenv("ML_USER_FILEMAKER_PASSWORD")
			os.Unsetenv("ML_MAX_SOLVE_SECONDS")
		}()

		s := config.FromEnvironment()
		Expect(s.MaxSolveDuration).To(Equal(45 * time.Second))
		Expect(s.SolverWorkers).To(Equal(config.Default.SolverWorkers))
	})

	It("panics when a required value is missing", func() {
		os.Unsetenv("MONGODB_URI")
		os.Unsetenv("ML_USER_FILEMAKER_USERNAME")
		os.Unsetenv("ML_USER_FILEMAKER_PASSWORD")
		Expect(func() { config.FromEnvironment() }).To(Panic())
	})
})

var _ = Describe("Context roundtrip", func() {
	It("returns what was stored", func() {
		ctx := config.ToContext(context.Background(), config.Default)
		Expect(config.FromContext(ctx)).To(Equal(config.Default))
	})

	It("panics when nothing was stored", func() {
		Expect(func() { config.FromContext(context.Background()) }).To(Panic())
	})
})
