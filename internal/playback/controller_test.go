package playback_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eqreplay/internal/playback"
)

var _ = Describe("Controller", func() {
	var ctrl *playback.Controller

	BeforeEach(func() {
		ctrl = playback.New(10)
	})

	It("starts stopped with the cursor at zero", func() {
		Expect(ctrl.State()).To(Equal(playback.Stopped))
		Expect(ctrl.Cursor()).To(Equal(0))
		Expect(ctrl.SpeedIndex()).To(Equal(playback.DefaultSpeedIndex))
		Expect(ctrl.RatioLabel()).To(Equal("1x"))
	})

	Describe("Start", func() {
		It("transitions to Running and arms a tick at the selected period", func() {
			tick, ok := ctrl.Start()
			Expect(ok).To(BeTrue())
			Expect(ctrl.State()).To(Equal(playback.Running))
			Expect(tick.Period).To(Equal(500 * time.Millisecond))
			Expect(ctrl.Accept(tick)).To(BeTrue())
		})

		It("is idempotent while Running", func() {
			first, _ := ctrl.Start()
			_, ok := ctrl.Start()
			Expect(ok).To(BeFalse(), "a second driver must not be armed")
			Expect(ctrl.Accept(first)).To(BeTrue(), "the first driver stays current")
		})
	})

	Describe("Stop", func() {
		It("invalidates the outstanding tick", func() {
			tick, _ := ctrl.Start()
			ctrl.Stop()
			Expect(ctrl.State()).To(Equal(playback.Stopped))
			Expect(ctrl.Accept(tick)).To(BeFalse(), "a late-firing timer must be dropped")
		})

		It("is a no-op while Stopped", func() {
			ctrl.Stop()
			Expect(ctrl.State()).To(Equal(playback.Stopped))
		})

		It("does not resurrect a stale tick across a restart", func() {
			stale, _ := ctrl.Start()
			ctrl.Stop()
			fresh, _ := ctrl.Start()
			Expect(ctrl.Accept(stale)).To(BeFalse())
			Expect(ctrl.Accept(fresh)).To(BeTrue())
		})
	})

	Describe("ChangeSpeed", func() {
		It("clamps at the slow end", func() {
			for i := 0; i < 20; i++ {
				ctrl.ChangeSpeed(-1)
			}
			Expect(ctrl.SpeedIndex()).To(Equal(0))
			Expect(ctrl.Period()).To(Equal(2 * time.Second))
			Expect(ctrl.RatioLabel()).To(Equal("0.25x"))
		})

		It("clamps at the fast end", func() {
			for i := 0; i < 20; i++ {
				ctrl.ChangeSpeed(1)
			}
			Expect(ctrl.SpeedIndex()).To(Equal(len(playback.Speeds) - 1))
			Expect(ctrl.Period()).To(Equal(25 * time.Millisecond))
			Expect(ctrl.RatioLabel()).To(Equal("20x"))
		})

		It("returns no tick while Stopped", func() {
			_, ok := ctrl.ChangeSpeed(1)
			Expect(ok).To(BeFalse())
			Expect(ctrl.SpeedIndex()).To(Equal(playback.DefaultSpeedIndex+1),
				"the selection still moves and applies on the next Start")
		})

		It("replaces the driver while Running", func() {
			old, _ := ctrl.Start()
			fresh, ok := ctrl.ChangeSpeed(1)
			Expect(ok).To(BeTrue())
			Expect(ctrl.Accept(old)).To(BeFalse(), "old-period driver is stale")
			Expect(ctrl.Accept(fresh)).To(BeTrue())
			Expect(fresh.Period).To(Equal(250 * time.Millisecond))
		})

		It("exposes the ratio ladder relative to the reference rung", func() {
			labels := make([]string, 0, len(playback.Speeds))
			ctrl.SetSpeed(0)
			labels = append(labels, ctrl.RatioLabel())
			for i := 1; i < len(playback.Speeds); i++ {
				ctrl.ChangeSpeed(1)
				labels = append(labels, ctrl.RatioLabel())
			}
			Expect(labels).To(Equal([]string{"0.25x", "0.5x", "1x", "2x", "5x", "10x", "20x"}))
		})
	})

	Describe("Advance", func() {
		It("increments the cursor", func() {
			Expect(ctrl.Advance()).To(Equal(1))
			Expect(ctrl.Advance()).To(Equal(2))
		})

		It("saturates at maxIter without stopping", func() {
			tick, _ := ctrl.Start()
			ctrl.Seek(10)
			Expect(ctrl.Advance()).To(Equal(10))
			Expect(ctrl.Advance()).To(Equal(10))
			Expect(ctrl.State()).To(Equal(playback.Running))
			Expect(ctrl.Accept(tick)).To(BeTrue(), "the saturated run keeps ticking")
		})
	})

	Describe("Seek", func() {
		It("clamps to [0, maxIter]", func() {
			Expect(ctrl.Seek(-5)).To(Equal(0))
			Expect(ctrl.Seek(7)).To(Equal(7))
			Expect(ctrl.Seek(99)).To(Equal(10))
		})

		It("is idempotent", func() {
			Expect(ctrl.Seek(4)).To(Equal(ctrl.Seek(4)))
			Expect(ctrl.Cursor()).To(Equal(4))
		})

		It("does not disturb a running driver", func() {
			tick, _ := ctrl.Start()
			ctrl.Seek(3)
			Expect(ctrl.Accept(tick)).To(BeTrue())
			Expect(ctrl.State()).To(Equal(playback.Running))
		})
	})

	Describe("Next", func() {
		It("re-arms at the current generation while Running", func() {
			tick, _ := ctrl.Start()
			next, ok := ctrl.Next()
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal(tick))
		})

		It("returns false once Stopped", func() {
			ctrl.Start()
			ctrl.Stop()
			_, ok := ctrl.Next()
			Expect(ok).To(BeFalse())
		})
	})

	It("clamps a negative bound to zero", func() {
		c := playback.New(-1)
		Expect(c.MaxIter()).To(Equal(0))
		Expect(c.Advance()).To(Equal(0))
	})
})
