package server

import (
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"

	"github.com/danmuck/ndefkit/internal/observability"
	"github.com/danmuck/ndefkit/internal/protocol/ndef"
	"github.com/danmuck/ndefkit/internal/protocol/tlv"
	"github.com/danmuck/ndefkit/internal/records"
	"github.com/danmuck/ndefkit/internal/store"
)

var ErrStoreDisabled = errors.New("message store disabled")

type hexBody struct {
	Hex string `json:"hex"`
}

type encodeResponse struct {
	Hex     string `json:"hex"`
	Size    int    `json:"size"`
	Records int    `json:"records"`
}

type messageResponse struct {
	ID      string           `json:"id,omitempty"`
	Size    int              `json:"size"`
	Records []records.Record `json:"records"`
}

func (s *Server) RegisterRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": Version,
			"bounded": s.limits.Bounded(),
			"store":   s.store != nil,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/encode", s.handleEncode)
	v1.POST("/decode", s.handleDecode)
	v1.POST("/messages", s.handleCreate)
	v1.GET("/messages/:id", s.handleGet)
	v1.GET("/messages/:id/raw", s.handleGetRaw)
	v1.DELETE("/messages/:id", s.handleDelete)
}

func (s *Server) handleEncode(c *gin.Context) {
	var in records.Message
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, statusFor(badRequest{err}), err)
		return
	}
	data, n, err := s.encode(in, wantTLV(c))
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	if c.Query("format") == "raw" {
		c.Data(http.StatusOK, "application/octet-stream", data)
		return
	}
	c.JSON(http.StatusOK, encodeResponse{Hex: hex.EncodeToString(data), Size: len(data), Records: n})
}

func (s *Server) handleDecode(c *gin.Context) {
	data, err := s.readImage(c)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	msg, err := s.decode(data)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Size: len(data), Records: records.FromNDEF(msg).Records})
}

// handleCreate stores a message given either as JSON records or as an
// encoded image.
func (s *Server) handleCreate(c *gin.Context) {
	if s.store == nil {
		s.fail(c, http.StatusServiceUnavailable, ErrStoreDisabled)
		return
	}
	var (
		data []byte
		err  error
	)
	if isJSON(c) {
		var in records.Message
		if err := bindJSON(c, &in); err != nil {
			s.fail(c, statusFor(badRequest{err}), err)
			return
		}
		data, _, err = s.encode(in, false)
	} else {
		data, err = s.readImage(c)
	}
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}

	id, err := s.store.Create(data)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String(), "size": len(data)})
}

func (s *Server) handleGet(c *gin.Context) {
	id, ok := s.messageID(c)
	if !ok {
		return
	}
	data, err := s.store.Read(id)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	msg, err := s.decode(data)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{
		ID:      id.String(),
		Size:    len(data),
		Records: records.FromNDEF(msg).Records,
	})
}

func (s *Server) handleGetRaw(c *gin.Context) {
	id, ok := s.messageID(c)
	if !ok {
		return
	}
	data, err := s.store.Read(id)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	if wantTLV(c) {
		if data, err = tlv.WrapNDEF(data); err != nil {
			s.fail(c, statusFor(err), err)
			return
		}
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := s.messageID(c)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) messageID(c *gin.Context) (ksuid.KSUID, bool) {
	if s.store == nil {
		s.fail(c, http.StatusServiceUnavailable, ErrStoreDisabled)
		return ksuid.Nil, false
	}
	id, err := ksuid.Parse(c.Param("id"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) encode(in records.Message, wrap bool) ([]byte, int, error) {
	msg, err := records.ToNDEF(in, s.limits)
	if err != nil {
		observability.RecordCodec("encode", 0, 0, err)
		return nil, 0, err
	}
	data, err := msg.Encode()
	observability.RecordCodec("encode", len(data), msg.Len(), err)
	if err != nil {
		return nil, 0, err
	}
	if wrap {
		if data, err = tlv.WrapNDEF(data); err != nil {
			return nil, 0, err
		}
	}
	return data, msg.Len(), nil
}

func (s *Server) decode(data []byte) (*ndef.Message, error) {
	msg, err := ndef.DecodeWithLimits(data, s.limits)
	if err != nil {
		observability.RecordCodec("decode", len(data), 0, err)
		return nil, err
	}
	observability.RecordCodec("decode", len(data), msg.Len(), nil)
	return msg, nil
}

// readImage reads an encoded message from the body: raw bytes, or
// {"hex": "..."} when the content type is JSON. With tlv=true the body
// is a tag memory image and the NDEF TLV is extracted.
func (s *Server) readImage(c *gin.Context) ([]byte, error) {
	var data []byte
	if isJSON(c) {
		var in hexBody
		if err := bindJSON(c, &in); err != nil {
			return nil, badRequest{err}
		}
		decoded, err := records.DecodeHex([]byte(in.Hex))
		if err != nil {
			return nil, badRequest{err}
		}
		data = decoded
	} else {
		raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			return nil, badRequest{err}
		}
		data = raw
	}
	if wantTLV(c) {
		return tlv.UnwrapNDEF(data)
	}
	return data, nil
}

// bindJSON decodes the request body into v, reading at most maxBodyBytes.
func bindJSON(c *gin.Context, v any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	return c.ShouldBindJSON(v)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"kind":  observability.ErrorKind(err),
	})
}

type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func statusFor(err error) int {
	var (
		br     badRequest
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ndef.ErrBufferTooSmall), errors.Is(err, tlv.ErrValueTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, records.ErrInvalidRecord), observability.ErrorKind(err) != "other":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}

func wantTLV(c *gin.Context) bool {
	v := strings.ToLower(c.Query("tlv"))
	return v == "1" || v == "true"
}
