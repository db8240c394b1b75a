package pack_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gomock "github.com/golang/mock/gomock"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/pack"
)

var _ = Describe("architecture plugin dispatch", func() {
	It("calls the uarch's Name and Pack exactly once each, after the generic passes", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		in := idstring.NewInterner()
		ctx := design.NewContext(nil, in, nil)

		arch := NewMockArch(mockCtrl)
		arch.EXPECT().Name().Return("mock-uarch").Times(1)
		arch.EXPECT().Pack(ctx).Return(nil).Times(1)

		opts := pack.Options{Rules: pack.DefaultRules(in)}
		Expect(pack.Pack(ctx, in, arch, opts)).To(Succeed())
	})

	It("propagates an error from the uarch's own Pack pass without running constant propagation", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		in := idstring.NewInterner()
		ctx := design.NewContext(nil, in, nil)

		boom := &designPackError{msg: "family-specific pack pass failed"}
		arch := NewMockArch(mockCtrl)
		arch.EXPECT().Name().Return("mock-uarch").Times(1)
		arch.EXPECT().Pack(ctx).Return(boom).Times(1)

		opts := pack.Options{Rules: pack.DefaultRules(in)}
		err := pack.Pack(ctx, in, arch, opts)
		Expect(err).To(MatchError(boom))
	})
})

type designPackError struct{ msg string }

func (e *designPackError) Error() string { return e.msg }
