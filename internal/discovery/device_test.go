package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	d := &Device{Instance: "core-sw1", Hostname: "core-sw1.local", IP: "10.0.0.1", Port: 443}
	if got, want := d.String(), "core-sw1 at 10.0.0.1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	d.Instance = ""
	d.Port = 8443
	if got, want := d.String(), "core-sw1.local at 10.0.0.1:8443"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDevice_APIRoot(t *testing.T) {
	tests := []struct {
		path         string
		wantRoot     string
		wantRESTCONF bool
	}{
		{path: "/restconf", wantRoot: "/restconf", wantRESTCONF: true},
		{path: "restconf/", wantRoot: "/restconf", wantRESTCONF: true},
		{path: "/api/RESTCONF", wantRoot: "/api/RESTCONF", wantRESTCONF: true},
		{path: "/", wantRoot: ""},
		{path: "", wantRoot: ""},
		{path: "/webui", wantRoot: "/webui"},
	}

	for _, tt := range tests {
		d := &Device{Metadata: map[string]string{"path": tt.path}}
		if got := d.APIRoot(); got != tt.wantRoot {
			t.Errorf("APIRoot(%q) = %q, want %q", tt.path, got, tt.wantRoot)
		}
		if got := d.IsRESTCONF(); got != tt.wantRESTCONF {
			t.Errorf("IsRESTCONF(%q) = %v, want %v", tt.path, got, tt.wantRESTCONF)
		}
	}
}

func TestDevice_GetMetadata_NilMap(t *testing.T) {
	d := &Device{}
	if got := d.GetMetadata("path"); got != "" {
		t.Errorf("GetMetadata() = %q, want empty", got)
	}
	if d.IsRESTCONF() {
		t.Error("IsRESTCONF() = true without metadata")
	}
}
