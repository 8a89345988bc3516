package simulator

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/netauto/iosxecfg/internal/logging"
	"github.com/netauto/iosxecfg/internal/restconf"
	"go.uber.org/zap"
)

// DefaultUsername and DefaultPassword are the credentials accepted when none are configured
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin"
)

var interfaceLeafPattern = regexp.MustCompile(`^Cisco-IOS-XE-native:native/interface/([A-Za-z][A-Za-z-]*)=([^/]+)/(ip/address/primary|description)$`)

// HandlerOptions configures a Handler
type HandlerOptions struct {
	Username string
	Password string

	// APIRoot is the RESTCONF root announced in host-meta (default "/restconf")
	APIRoot string

	// Latency delays every datastore response
	Latency time.Duration
}

// Handler serves the RESTCONF datastore of a Device
type Handler struct {
	device   *Device
	opts     HandlerOptions
	dataRoot string

	mutationStatus atomic.Int32
	requests       atomic.Int64
}

// NewHandler creates an HTTP handler for the device
func NewHandler(device *Device, opts HandlerOptions) *Handler {
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.APIRoot == "" {
		opts.APIRoot = restconf.DefaultAPIRoot
	}
	opts.APIRoot = "/" + strings.Trim(opts.APIRoot, "/")

	return &Handler{
		device:   device,
		opts:     opts,
		dataRoot: opts.APIRoot + "/data/",
	}
}

// Device returns the device served by the handler
func (h *Handler) Device() *Device {
	return h.device
}

// FailMutations makes every PUT and PATCH answer with status without
// changing the device. Zero restores normal behavior.
func (h *Handler) FailMutations(status int) {
	h.mutationStatus.Store(int32(status))
}

// Requests returns the number of datastore requests served
func (h *Handler) Requests() int64 {
	return h.requests.Load()
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.EscapedPath()

	if path == restconf.HostMetaPath {
		h.serveHostMeta(w, r)
		return
	}

	if !strings.HasPrefix(path, h.dataRoot) {
		http.NotFound(w, r)
		return
	}

	h.requests.Add(1)

	if user, pass, ok := r.BasicAuth(); !ok || user != h.opts.Username || pass != h.opts.Password {
		w.Header().Set("WWW-Authenticate", `Basic realm="restconf"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if h.opts.Latency > 0 {
		select {
		case <-time.After(h.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	resource := strings.TrimPrefix(path, h.dataRoot)

	logging.Debug("Simulator request",
		zap.String("method", r.Method),
		zap.String("resource", resource),
		zap.String("remote_addr", r.RemoteAddr))

	if r.Method == http.MethodPut || r.Method == http.MethodPatch {
		if status := int(h.mutationStatus.Load()); status != 0 {
			w.WriteHeader(status)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), restconf.MediaType) {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
	}

	switch {
	case resource == restconf.NativeContainer+restconf.HostnameLeaf:
		h.serveHostname(w, r)
	case resource == restconf.InterfacesContainer:
		h.serveRead(w, r, h.device.interfacesDocument())
	case resource == restconf.InterfacesStateContainer:
		h.serveRead(w, r, h.device.interfacesStateDocument())
	case resource == restconf.StatisticsContainer:
		h.serveRead(w, r, h.device.statisticsDocument())
	case resource == restconf.VLANListContainer:
		h.serveVLANs(w, r)
	case interfaceLeafPattern.MatchString(resource):
		h.serveInterfaceLeaf(w, r, interfaceLeafPattern.FindStringSubmatch(resource))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) serveHostMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", restconf.XRDMediaType)
	_, _ = fmt.Fprintf(w, "<XRD xmlns='http://docs.oasis-open.org/ns/xri/xrd-1.0'>\n    <Link rel='%s' href='%s'/>\n</XRD>\n",
		restconf.RootLinkRel, h.opts.APIRoot)
}

func (h *Handler) serveRead(w http.ResponseWriter, r *http.Request, doc []byte) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeDocument(w, doc)
}

func (h *Handler) serveHostname(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc, _ := json.Marshal(map[string]string{restconf.HostnameMember: h.device.Hostname()})
		writeDocument(w, doc)
	case http.MethodPut:
		var body map[string]*string
		if !decodeBody(w, r, &body) {
			return
		}
		hostname := body[restconf.HostnameMember]
		if hostname == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.device.SetHostname(*hostname)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveInterfaceLeaf(w http.ResponseWriter, r *http.Request, m []string) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	number, err := url.PathUnescape(m[2])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	name := m[1] + number

	var found bool
	switch m[3] {
	case "description":
		var body struct {
			Description *string `json:"description"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Description == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		found = h.device.setDescription(name, *body.Description)
	default:
		var body struct {
			Primary *restconf.PrimaryAddress `json:"primary"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Primary == nil || restconf.ValidateNetmask(body.Primary.Mask) != nil || !isIPv4(body.Primary.Address) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		found = h.device.setPrimaryAddress(name, body.Primary.Address, body.Primary.Mask)
	}

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serveVLANs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc, ok := h.device.vlanDocument()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeDocument(w, doc)
	case http.MethodPatch:
		var body struct {
			Entry *struct {
				ID   restconf.VLANID `json:"id"`
				Name string          `json:"name"`
			} `json:"Cisco-IOS-XE-vlan:vlan-list"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Entry == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id, err := strconv.Atoi(string(body.Entry.ID))
		if err != nil || id < 1 || id > 4094 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.device.upsertVLAN(id, body.Entry.Name)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logging.Debug("Simulator rejected body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

func writeDocument(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", restconf.MediaType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}
