package nmpolicy

import (
	"testing"

	"github.com/mitchellh/hashstructure"
	. "github.com/smartystreets/goconvey/convey"
)

func currentStateFixture() StateTree {
	return StateTree{
		"routes": map[string]interface{}{
			"running": []interface{}{
				map[string]interface{}{"destination": "0.0.0.0/0", "next-hop-interface": "eth0"},
				map[string]interface{}{"destination": "1.1.1.0/24", "next-hop-interface": "eth1"},
			},
		},
	}
}

func TestGenerateState(t *testing.T) {
	Convey("GenerateState filters the current state by a capture and expands a placeholder from it", t, func() {
		policy := PolicySpec{
			Capture: map[string]string{
				"default-gw": "routes.running.destination == '0.0.0.0/0'",
			},
			DesiredState: StateTree{
				"interfaces": []interface{}{
					map[string]interface{}{
						"name": "{{ capture.default-gw.routes.running.0.next-hop-interface }}",
						"type": "ethernet",
					},
				},
			},
		}

		generated, err := GenerateState(policy, currentStateFixture(), nil)
		So(err, ShouldBeNil)
		So(generated.Cache, ShouldContainKey, "default-gw")

		ifaces := generated.DesiredState["interfaces"].([]interface{})
		So(ifaces[0].(map[string]interface{})["name"], ShouldEqual, "eth0")
	})

	Convey("GenerateState leaves a desired state with no placeholders untouched", t, func() {
		policy := PolicySpec{
			DesiredState: StateTree{"description": "static policy, no captures"},
		}
		generated, err := GenerateState(policy, currentStateFixture(), nil)
		So(err, ShouldBeNil)
		So(generated.Cache, ShouldBeEmpty)
		So(generated.DesiredState["description"], ShouldEqual, "static policy, no captures")
	})

	Convey("GenerateState resolves captures in a cache-order-independent way", t, func() {
		policy := PolicySpec{
			Capture: map[string]string{
				"default-gw": "routes.running.destination == '0.0.0.0/0'",
				"base-iface": "capture.default-gw | routes.running.next-hop-interface := 'br1'",
			},
			DesiredState: StateTree{"unused": true},
		}

		first, err := GenerateState(policy, currentStateFixture(), nil)
		So(err, ShouldBeNil)
		second, err := GenerateState(policy, currentStateFixture(), nil)
		So(err, ShouldBeNil)

		hashFirst, err := hashstructure.Hash(first.Cache, nil)
		So(err, ShouldBeNil)
		hashSecond, err := hashstructure.Hash(second.Cache, nil)
		So(err, ShouldBeNil)
		So(hashFirst, ShouldEqual, hashSecond)
	})

	Convey("GenerateState reuses a supplied cache instead of recomputing a capture", t, func() {
		policy := PolicySpec{
			Capture: map[string]string{
				"default-gw": "routes.running.destination == '0.0.0.0/0'",
			},
			DesiredState: StateTree{"unused": true},
		}
		cache := CapturedStates{
			"default-gw": CapturedState{
				State:    StateTree{"stale": true},
				MetaInfo: &MetaInfo{Version: "1"},
			},
		}
		generated, err := GenerateState(policy, currentStateFixture(), cache)
		So(err, ShouldBeNil)
		So(generated.Cache["default-gw"].State, ShouldResemble, StateTree{"stale": true})
		So(generated.Cache["default-gw"].MetaInfo.Version, ShouldEqual, "1")
	})

	Convey("GenerateState surfaces an evaluation error for an undefined capture reference", t, func() {
		policy := PolicySpec{
			Capture: map[string]string{
				"base-iface": "routes.running.next-hop-interface == " +
					"capture.default-gw.routes.running.0.next-hop-interface",
			},
			DesiredState: StateTree{"unused": true},
		}
		_, err := GenerateState(policy, currentStateFixture(), nil)
		So(err, ShouldNotBeNil)
	})
}
