package resolve

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nmstate/nmpolicy/pkg/nmpolicy/ast"
)

func TestWalk(t *testing.T) {
	Convey("Walk a plain map path down to a scalar", t, func() {
		state := map[string]interface{}{
			"routes": map[string]interface{}{
				"running": "eth0",
			},
		}
		p := mustPath(t, ast.NewIdentity(0, "routes"), ast.NewIdentity(0, "running"))
		result, err := Walk(state, p)
		So(err, ShouldBeNil)
		So(result, ShouldEqual, "eth0")
	})

	Convey("Walk a numeric step into a list", t, func() {
		state := map[string]interface{}{
			"running": []interface{}{"eth0", "eth1"},
		}
		p := mustPath(t, ast.NewIdentity(0, "running"), ast.NewNumber(0, 1))
		result, err := Walk(state, p)
		So(err, ShouldBeNil)
		So(result, ShouldEqual, "eth1")
	})

	Convey("Walk a missing map key is an evaluation error", t, func() {
		state := map[string]interface{}{"routes": map[string]interface{}{}}
		p := mustPath(t, ast.NewIdentity(0, "routes"), ast.NewIdentity(0, "running"))
		_, err := Walk(state, p)
		So(err, ShouldNotBeNil)
	})

	Convey("Walk an out of range index is an evaluation error", t, func() {
		state := map[string]interface{}{"running": []interface{}{"eth0"}}
		p := mustPath(t, ast.NewIdentity(0, "running"), ast.NewNumber(0, 5))
		_, err := Walk(state, p)
		So(err, ShouldNotBeNil)
	})

	Convey("Walk a non numeric step into a list is an evaluation error", t, func() {
		state := map[string]interface{}{"running": []interface{}{"eth0"}}
		p := mustPath(t, ast.NewIdentity(0, "running"), ast.NewIdentity(0, "iface"))
		_, err := Walk(state, p)
		So(err, ShouldNotBeNil)
	})
}
