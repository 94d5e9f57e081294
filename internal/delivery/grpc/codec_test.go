package grpc

import (
	"errors"
	"testing"

	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestJSONCodec_RoundTrip(t *testing.T) {
	c := jsonCodec{}
	in := StartUploadVersionRequest{VersionID: "abc", Hash: "deadbeef", ChunkSize: 1024, FileSize: 2048}

	b, err := c.Marshal(in)
	assert.NoError(t, err)

	var out StartUploadVersionRequest
	assert.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestJSONCodec_Name(t *testing.T) {
	assert.Equal(t, "json", jsonCodec{}.Name())
}

func TestToGRPCStatus_MapsKindsToCodes(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{apperr.Validation("field", "bad"), codes.InvalidArgument},
		{apperr.Auth("nope"), codes.Unauthenticated},
		{apperr.NotFound("missing"), codes.NotFound},
		{apperr.Conflict("busy"), codes.FailedPrecondition},
		{apperr.Unavailable(errors.New("down")), codes.Unavailable},
		{apperr.Integrity("bad hash"), codes.DataLoss},
		{apperr.Internal(errors.New("boom")), codes.Internal},
		{errors.New("plain"), codes.Internal},
	}

	for _, tc := range cases {
		st, ok := status.FromError(toGRPCStatus(tc.err))
		assert.True(t, ok)
		assert.Equal(t, tc.code, st.Code())
	}
}
