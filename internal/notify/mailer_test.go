package notify

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxrse/surgery-booking-backend/internal/invite"
)

func testInvite() invite.Invite {
	start := time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	return invite.Build(
		"team@oxrse.uk", "Ada", "ada@example.com",
		"Software surgery", "Help with packaging",
		start, start.Add(30*time.Minute),
	)
}

func TestBuildMessage(t *testing.T) {
	inv := testInvite()

	raw, err := buildMessage(inv, "ada@example.com", "team@oxrse.uk")
	require.NoError(t, err)

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	assert.Equal(t, "team@oxrse.uk", msg.Header.Get("From"))
	assert.Equal(t, "ada@example.com", msg.Header.Get("To"))
	assert.Equal(t, "Software surgery", msg.Header.Get("Subject"))
	assert.Equal(t, contentClass, msg.Header.Get("Content-Class"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)
	require.NotEmpty(t, params["boundary"])

	mr := multipart.NewReader(msg.Body, params["boundary"])

	// First part: human-readable body.
	part, err := mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, part.Header.Get("Content-Type"), "text/plain")
	body, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Help with packaging")

	// Second part: base64 iCalendar attachment with method REQUEST.
	part, err = mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, part.Header.Get("Content-Type"), "text/calendar")
	assert.Contains(t, part.Header.Get("Content-Type"), "method=REQUEST")
	assert.Equal(t, "base64", part.Header.Get("Content-Transfer-Encoding"))

	encoded, err := io.ReadAll(part)
	require.NoError(t, err)
	ics, err := base64.StdEncoding.DecodeString(string(encoded))
	require.NoError(t, err)
	assert.Contains(t, string(ics), "METHOD:REQUEST")
	assert.Contains(t, string(ics), "UID:"+inv.UID)
}
