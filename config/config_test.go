package config

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/pod2-sandbox/pod"
)

func TestConfig(t *testing.T) {
	c := qt.New(t)
	conf := Default()
	c.Assert(conf.Validate(), qt.IsNil)
	c.Assert(conf.DBDir(), qt.Matches, ".*db")

	conf.Port = 70000
	c.Assert(conf.Validate(), qt.IsNotNil)

	conf = Default()
	conf.DataDir = ""
	c.Assert(conf.Validate(), qt.IsNotNil)

	conf = Default()
	conf.Params = pod.Params{M: 0, N: 0, NS: 4, VL: 1}
	c.Assert(conf.Validate(), qt.IsNotNil)
}
