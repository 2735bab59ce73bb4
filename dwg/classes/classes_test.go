package classes

import "testing"

func TestResolveFixed(t *testing.T) {
	name, ok := Resolve(0x3E, nil)
	if !ok || name != "LINE" {
		t.Fatalf("got %q, %v", name, ok)
	}
}

func TestResolveDynamic(t *testing.T) {
	dyn := Table{}
	dyn.Register(0x1F5, "ACAD_PROXY_ENTITY")
	name, ok := Resolve(0x1F5, dyn)
	if !ok || name != "ACAD_PROXY_ENTITY" {
		t.Fatalf("got %q, %v", name, ok)
	}
	_, ok = Resolve(0x1F6, dyn)
	if ok {
		t.Error("unregistered dynamic code should not resolve")
	}
}

func TestMatchesTypeName(t *testing.T) {
	dyn := Table{0x1F0: "LWPOLYLINE"}
	if !MatchesTypeName(0x48, 0x48, "LWPOLYLINE", dyn) {
		t.Error("fixed-code match should succeed")
	}
	if !MatchesTypeName(0x1F0, 0x48, "LWPOLYLINE", dyn) {
		t.Error("dynamic-name match should succeed")
	}
	if MatchesTypeName(0x1F1, 0x48, "LWPOLYLINE", dyn) {
		t.Error("unrelated dynamic code should not match")
	}
}

func TestRegisterEmptyNameIsNoop(t *testing.T) {
	dyn := Table{}
	dyn.Register(0x1F0, "")
	if _, ok := Resolve(0x1F0, dyn); ok {
		t.Error("empty class name should not register")
	}
}
