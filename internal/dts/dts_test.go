package dts_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/dts"
)

func TestDTS(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Datetime/seconds conversion")
}

var _ = Describe("Convert", func() {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	It("converts a future time to positive seconds", func() {
		later := now.Add(2 * time.Hour)
		secs, ok := dts.Convert(later, now)
		Expect(ok).To(BeTrue())
		Expect(secs).To(Equal(int64(7200)))
	})

	It("converts a past time to negative seconds", func() {
		earlier := now.Add(-1 * time.Hour)
		secs, ok := dts.Convert(earlier, now)
		Expect(ok).To(BeTrue())
		Expect(secs).To(Equal(int64(-3600)))
	})

	It("reports not-ok on a zero time", func() {
		_, ok := dts.Convert(time.Time{}, now)
		Expect(ok).To(BeFalse())
	})

	It("round-trips through FromSeconds", func() {
		back := dts.FromSeconds(3600, now)
		Expect(back).To(Equal(now.Add(time.Hour)))
	})
})

var _ = Describe("Calendar helpers", func() {
	It("reports Saturday and Sunday as weekend", func() {
		sat := time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)
		sun := time.Date(2026, 8, 2, 3, 0, 0, 0, time.UTC)
		mon := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
		Expect(dts.IsWeekend(sat)).To(BeTrue())
		Expect(dts.IsWeekend(sun)).To(BeTrue())
		Expect(dts.IsWeekend(mon)).To(BeFalse())
	})

	It("truncates to the start of the calendar day", func() {
		t := time.Date(2026, 8, 1, 17, 42, 9, 0, time.UTC)
		Expect(dts.StartOfDay(t)).To(Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	})

	It("builds a clock time on the given day", func() {
		day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		Expect(dts.AtClock(day, 6, 0)).To(Equal(time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)))
	})
})
