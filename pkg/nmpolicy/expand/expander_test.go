package expand

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// capturePathResolverStub resolves a fixed set of expressions, the way
// a real resolve.Resolver would, without pulling in the lexer/parser/
// resolve packages this package must stay decoupled from.
type capturePathResolverStub struct {
	values map[string]interface{}
	err    error
}

func (s *capturePathResolverStub) ResolveCaptureEntryPath(expression string) (interface{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.values[expression]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func TestExpand(t *testing.T) {
	Convey("Expand leaves plain strings untouched", t, func() {
		resolver := &capturePathResolverStub{}
		e := New(resolver)
		state := map[string]interface{}{"iface": "eth0"}
		result, err := e.Expand(state)
		So(err, ShouldBeNil)
		So(result["iface"], ShouldEqual, "eth0")
	})

	Convey("Expand substitutes a whole-string placeholder with its resolved value", t, func() {
		resolver := &capturePathResolverStub{
			values: map[string]interface{}{
				"capture.default-gw.routes.running.0.next-hop-interface": "eth0",
			},
		}
		e := New(resolver)
		state := map[string]interface{}{
			"next-hop-interface": "{{ capture.default-gw.routes.running.0.next-hop-interface }}",
		}
		result, err := e.Expand(state)
		So(err, ShouldBeNil)
		So(result["next-hop-interface"], ShouldEqual, "eth0")
	})

	Convey("Expand does not treat a brace pair with no surrounding space as a placeholder", t, func() {
		resolver := &capturePathResolverStub{}
		e := New(resolver)
		state := map[string]interface{}{"literal": "{{capture.default-gw}}"}
		result, err := e.Expand(state)
		So(err, ShouldBeNil)
		So(result["literal"], ShouldEqual, "{{capture.default-gw}}")
	})

	Convey("Expand recurses into nested maps and slices", t, func() {
		resolver := &capturePathResolverStub{
			values: map[string]interface{}{"capture.default-gw": "10.0.0.1"},
		}
		e := New(resolver)
		state := map[string]interface{}{
			"routes": []interface{}{
				map[string]interface{}{"next-hop-address": "{{ capture.default-gw }}"},
			},
		}
		result, err := e.Expand(state)
		So(err, ShouldBeNil)
		routes := result["routes"].([]interface{})
		So(routes[0].(map[string]interface{})["next-hop-address"], ShouldEqual, "10.0.0.1")
	})

	Convey("Expand propagates a resolver error", t, func() {
		resolver := &capturePathResolverStub{err: errBoom}
		e := New(resolver)
		state := map[string]interface{}{"iface": "{{ capture.default-gw }}"}
		_, err := e.Expand(state)
		So(err, ShouldNotBeNil)
	})
}

var errBoom = &stubError{"boom"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }
