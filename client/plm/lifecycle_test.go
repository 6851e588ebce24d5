package plm_test

import (
	"plmgate/client/plm"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("VersionLifecycle", func() {
	checkedIn := plm.State{Name: plm.WorkingStateCheckedIn}
	checkedOut := plm.State{Name: plm.WorkingStateCheckedOut}

	Describe("AvailableTransitions", func() {
		It("should only offer checkout from CHECKED_IN", func() {
			Ω(plm.VersionLifecycle.AvailableTransitions(checkedIn)).Should(Equal([]plm.Transition{
				{Name: "checkout", From: checkedIn, To: checkedOut},
			}))
		})

		It("should only offer checkin from CHECKED_OUT", func() {
			Ω(plm.VersionLifecycle.AvailableTransitions(checkedOut)).Should(Equal([]plm.Transition{
				{Name: "checkin", From: checkedOut, To: checkedIn},
			}))
		})
	})

	Describe("Accept", func() {
		It("should accept the two lifecycle transitions and nothing else", func() {
			Expect(plm.VersionLifecycle.Accept("checkout", checkedIn, checkedOut)).To(BeTrue())
			Expect(plm.VersionLifecycle.Accept("checkin", checkedOut, checkedIn)).To(BeTrue())

			Expect(plm.VersionLifecycle.Accept("checkout", checkedOut, checkedIn)).To(BeFalse())
			Expect(plm.VersionLifecycle.Accept("checkin", checkedIn, checkedOut)).To(BeFalse())
			Expect(plm.VersionLifecycle.Accept("discard", checkedOut, checkedIn)).To(BeFalse())
		})
	})
})
