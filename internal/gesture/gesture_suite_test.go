package gesture

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGestureMachine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gesture Machine Suite")
}
