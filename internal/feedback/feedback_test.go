package feedback_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/feedback"
)

func TestFeedback(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Feedback log and tree")
}

var _ = Describe("Log", func() {
	It("keeps messages in insertion order", func() {
		l := feedback.NewLog()
		l.Add("first")
		l.Add("second")
		Expect(l.Messages()).To(Equal([]string{"first", "second"}))
	})

	It("renders the user_feedback document with 1-based string keys", func() {
		l := feedback.NewLog()
		l.Add("only message")
		Expect(l.Document()).To(Equal(map[string]string{"1": "only message"}))
	})

	It("suppresses a repeated AddOnce for an unchanged value", func() {
		l := feedback.NewLog()
		l.AddOnce("defaults:a:m1", 4.0, "using default cavity")
		l.AddOnce("defaults:a:m1", 4.0, "using default cavity")
		Expect(l.Messages()).To(HaveLen(1))
	})

	It("re-emits AddOnce when the underlying value changes", func() {
		l := feedback.NewLog()
		l.AddOnce("k", 1, "first value")
		l.AddOnce("k", 2, "second value")
		Expect(l.Messages()).To(HaveLen(2))
	})
})

var _ = Describe("Tree", func() {
	It("nests child frames under the root and records close times", func() {
		start := time.Now()
		tree := feedback.NewTree("calculate_planning", start)
		child := tree.Root().Child("assemble_inputs", start)
		child.Error("boom")
		end := start.Add(time.Second)
		child.Close(end)
		tree.Root().Close(end)

		Expect(tree.Root().Name).To(Equal("calculate_planning"))
		Expect(tree.Root().Steps).To(HaveLen(1))
		Expect(tree.Root().Steps[0].Errors).To(ConsistOf("boom"))
		Expect(tree.Root().Steps[0].End).To(Equal(end))
	})
})
