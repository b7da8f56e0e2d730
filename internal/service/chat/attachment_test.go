package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentObjectKey(t *testing.T) {
	at := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

	key := attachmentObjectKey(".pdf", at)

	assert.True(t, strings.HasPrefix(key, "attachments/2026/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)

	// The middle segment is a fresh uuid, so keys never collide on name.
	id := strings.TrimSuffix(strings.TrimPrefix(key, "attachments/2026/03/"), ".pdf")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	assert.NotEqual(t, key, attachmentObjectKey(".pdf", at))
}
