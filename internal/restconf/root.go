package restconf

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HostMetaPath is the well-known resource announcing the RESTCONF root
const HostMetaPath = "/.well-known/host-meta"

// XRDMediaType is the media type of the host-meta document
const XRDMediaType = "application/xrd+xml"

// RootLinkRel is the link relation naming the RESTCONF root
const RootLinkRel = "restconf"

type hostMeta struct {
	XMLName xml.Name       `xml:"XRD"`
	Links   []hostMetaLink `xml:"Link"`
}

type hostMetaLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// DiscoverRoot reads the device's host-meta document and returns the API
// root it announces (e.g. "/restconf").
func (c *Client) DiscoverRoot(ctx context.Context) (string, error) {
	base, err := url.Parse(c.transport.BaseURL)
	if err != nil {
		return "", NewValidationError(fmt.Sprintf("invalid base URL %q", c.transport.BaseURL))
	}

	resp, err := c.transport.Fetch(ctx, base.Scheme+"://"+base.Host+HostMetaPath, XRDMediaType)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", c.protocolError(resp, http.MethodGet, HostMetaPath)
	}

	return ParseHostMeta(resp.Body)
}

// ParseHostMeta extracts the RESTCONF root from an XRD document
func ParseHostMeta(data []byte) (string, error) {
	var doc hostMeta
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", NewParseError("host-meta is not a valid XRD document", err)
	}

	for _, link := range doc.Links {
		if link.Rel != RootLinkRel {
			continue
		}
		href := strings.TrimSpace(link.Href)
		if u, err := url.Parse(href); err == nil && u.IsAbs() {
			href = u.Path
		}
		if href == "" {
			break
		}
		return "/" + strings.Trim(href, "/"), nil
	}

	return "", NewParseError(fmt.Sprintf("host-meta has no link with rel=%q", RootLinkRel), nil)
}
