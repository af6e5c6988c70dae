package resolve

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nmstate/nmpolicy/pkg/nmpolicy/ast"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/path"
)

func mustPath(t *testing.T, steps ...ast.Node) path.Path {
	t.Helper()
	p, err := path.ComposeFromNode(ast.NewPath(0, steps))
	if err != nil {
		t.Fatalf("unexpected path compile error: %v", err)
	}
	return p
}

func TestFilter(t *testing.T) {
	Convey("Filter by equality", t, func() {
		state := map[string]interface{}{
			"routes": map[string]interface{}{
				"running": []interface{}{
					map[string]interface{}{"destination": "0.0.0.0/0", "table-id": float64(254)},
					map[string]interface{}{"destination": "1.1.1.0/24", "table-id": float64(254)},
				},
			},
		}

		Convey("keeps only the matching slice element", func() {
			p := mustPath(t,
				ast.NewIdentity(0, "routes"),
				ast.NewIdentity(0, "running"),
				ast.NewIdentity(0, "destination"),
			)
			result, err := Filter(state, p, "0.0.0.0/0")
			So(err, ShouldBeNil)

			running := result["routes"].(map[string]interface{})["running"].([]interface{})
			So(len(running), ShouldEqual, 1)
			So(running[0].(map[string]interface{})["destination"], ShouldEqual, "0.0.0.0/0")
		})

		Convey("projects without comparing when expected is nil", func() {
			p := mustPath(t, ast.NewIdentity(0, "routes"))
			result, err := Filter(state, p, nil)
			So(err, ShouldBeNil)
			So(result, ShouldContainKey, "routes")
		})

		Convey("a path that misses entirely yields an empty map, not an error", func() {
			p := mustPath(t, ast.NewIdentity(0, "interfaces"))
			result, err := Filter(state, p, nil)
			So(err, ShouldBeNil)
			So(result, ShouldResemble, map[string]interface{}{})
		})

		Convey("type mismatch between filter value and projected value is an evaluation error", func() {
			p := mustPath(t,
				ast.NewIdentity(0, "routes"),
				ast.NewIdentity(0, "running"),
				ast.NewIdentity(0, "table-id"),
			)
			_, err := Filter(state, p, "254")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Filter drops non matching elements of a top level list", t, func() {
		state := map[string]interface{}{
			"running": []interface{}{
				map[string]interface{}{"iface": "eth0", "addr": "10.0.0.1"},
				map[string]interface{}{"iface": "eth1", "addr": "10.0.0.2"},
			},
		}
		p := mustPath(t, ast.NewIdentity(0, "running"), ast.NewIdentity(0, "iface"))
		result, err := Filter(state, p, "eth1")
		So(err, ShouldBeNil)

		running := result["running"].([]interface{})
		So(len(running), ShouldEqual, 1)
		So(running[0].(map[string]interface{})["iface"], ShouldEqual, "eth1")
		So(running[0].(map[string]interface{})["addr"], ShouldEqual, "10.0.0.2")
	})

	Convey("Filter keeps an untouched sibling of a nested list when fanning within a merge context", t, func() {
		state := map[string]interface{}{
			"outer": []interface{}{
				map[string]interface{}{
					"inner": []interface{}{
						map[string]interface{}{"x": float64(1)},
						map[string]interface{}{"x": float64(2)},
					},
				},
			},
		}
		p := mustPath(t,
			ast.NewIdentity(0, "outer"),
			ast.NewIdentity(0, "inner"),
			ast.NewIdentity(0, "x"),
		)
		result, err := Filter(state, p, float64(1))
		So(err, ShouldBeNil)

		outer := result["outer"].([]interface{})
		So(len(outer), ShouldEqual, 1)
		inner := outer[0].(map[string]interface{})["inner"].([]interface{})
		So(len(inner), ShouldEqual, 2)
		So(inner[0].(map[string]interface{})["x"], ShouldEqual, float64(1))
		So(inner[1].(map[string]interface{})["x"], ShouldEqual, float64(2))
	})
}
