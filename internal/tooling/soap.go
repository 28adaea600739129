package tooling

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"
)

const (
	soapNS     = "http://schemas.xmlsoap.org/soap/envelope/"
	metadataNS = "http://soap.sforce.com/2006/04/metadata"
)

type soapEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	SoapNS  string   `xml:"xmlns:soapenv,attr"`
	NS      string   `xml:"xmlns,attr"`
	Session string   `xml:"soapenv:Header>SessionHeader>sessionId"`
	Body    soapBody `xml:"soapenv:Body"`
}

// soapBody holds one operation element; its name comes from the
// request type's XMLName.
type soapBody struct {
	Operation any
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type soapResponse struct {
	Body struct {
		Fault *soapFault `xml:"Fault"`
		Inner []byte     `xml:",innerxml"`
	} `xml:"Body"`
}

func (c *RESTClient) metadataPath() string {
	return "/services/Soap/m/" + c.apiVersion
}

// MetadataCall posts request inside a SOAP envelope carrying the session
// id. A fault comes back as an *APIError with the fault code stripped of
// its "sf:" prefix.
func (c *RESTClient) MetadataCall(ctx context.Context, request, out any) error {
	path := c.metadataPath()
	env := soapEnvelope{
		SoapNS:  soapNS,
		NS:      metadataNS,
		Session: c.token,
		Body:    soapBody{Operation: request},
	}
	header := req.Header{
		"Content-Type": "text/xml; charset=UTF-8",
		"SOAPAction":   `""`,
	}
	status, body, err := c.send(ctx, http.MethodPost, path, header, nil, req.BodyXML(env))
	if err != nil {
		return err
	}

	var resp soapResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		if status < 200 || status >= 300 {
			return &APIError{Status: status, Method: http.MethodPost, Path: path, Body: string(body)}
		}
		return fmt.Errorf("tooling: decoding metadata response: %w", err)
	}
	if f := resp.Body.Fault; f != nil {
		code := strings.TrimPrefix(f.Code, "sf:")
		if code == "INVALID_SESSION_ID" {
			status = http.StatusUnauthorized
		}
		return &APIError{
			Status: status,
			Method: http.MethodPost,
			Path:   path,
			Errors: []FieldError{{ErrorCode: code, Message: f.String}},
			Body:   string(body),
		}
	}
	if status < 200 || status >= 300 {
		return &APIError{Status: status, Method: http.MethodPost, Path: path, Body: string(body)}
	}
	if err := xml.Unmarshal(resp.Body.Inner, out); err != nil {
		return fmt.Errorf("tooling: decoding metadata response: %w", err)
	}
	return nil
}
