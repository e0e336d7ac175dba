package http1

import (
	"strconv"

	"github.com/indigo-web/hostd/http"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/internal/response"
	"github.com/indigo-web/hostd/transport"
)

// defaultProtocol is used to answer requests that failed before their version was known.
const defaultProtocol = "1.1"

type Serializer struct {
	client transport.Client
	buff   []byte
}

func NewSerializer(client transport.Client, buff []byte) *Serializer {
	return &Serializer{
		client: client,
		buff:   buff,
	}
}

// Write serializes the response and writes it with a single call. It returns the number of
// body bytes written.
func (s *Serializer) Write(protocol string, response *http.Response) (int, error) {
	fields := response.Reveal()
	s.buff = s.buff[:0]

	s.appendStatusLine(protocol, fields)
	s.appendHeader("Content-Type: ", fields.ContentType)
	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendInt(s.buff, int64(len(fields.Body)), 10)
	s.crlf()

	if len(fields.Connection) > 0 {
		s.appendHeader("Connection: ", fields.Connection)
	}

	if len(fields.WWWAuthenticate) > 0 {
		s.appendHeader("WWW-Authenticate: ", fields.WWWAuthenticate)
	}

	s.crlf()
	s.buff = append(s.buff, fields.Body...)

	if _, err := s.client.Write(s.buff); err != nil {
		return 0, err
	}

	return len(fields.Body), nil
}

func (s *Serializer) appendStatusLine(protocol string, fields *response.Fields) {
	if len(protocol) == 0 {
		protocol = defaultProtocol
	}

	s.buff = append(s.buff, protocolPrefix...)
	s.buff = append(s.buff, protocol...)
	s.buff = append(s.buff, ' ')
	s.buff = append(s.buff, status.StringCode(fields.Code)...)
	s.buff = append(s.buff, ' ')
	s.buff = append(s.buff, status.Text(fields.Code)...)
	s.crlf()
}

func (s *Serializer) appendHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, '\r', '\n')
}
