package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMessagingSchema(t *testing.T) {
	roles := Classify([]string{"sender_number", "receiver_id", "message_text", "timestamp"})

	assert.Equal(t, "sender_number", roles[RoleSender])
	assert.Equal(t, "receiver_id", roles[RoleReceiver])
	assert.Equal(t, "message_text", roles[RoleText])
	assert.Equal(t, "timestamp", roles[RoleTimestamp])
}

func TestClassifyFirstMatchInDeclaredOrderWins(t *testing.T) {
	// Both "body" and "content" match the text role; declared order
	// decides, not ranking.
	roles := Classify([]string{"subject", "body", "content"})
	assert.Equal(t, "body", roles[RoleText])

	roles = Classify([]string{"content", "body"})
	assert.Equal(t, "content", roles[RoleText])
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	roles := Classify([]string{"Message_Body", "TIMESTAMP"})
	assert.Equal(t, "message_body", roles[RoleText])
	assert.Equal(t, "timestamp", roles[RoleTimestamp])
}

func TestClassifyOmitsUnmatchedRoles(t *testing.T) {
	roles := Classify([]string{"id", "flags"})
	assert.Empty(t, roles)

	roles = Classify([]string{"display_name"})
	assert.Equal(t, "display_name", roles[RoleName])
	_, hasText := roles[RoleText]
	assert.False(t, hasText)
}

func TestClassifyOneColumnCanFillSeveralRoles(t *testing.T) {
	// "address" is a sender keyword, "number" a phone keyword; one
	// column may satisfy both independently.
	roles := Classify([]string{"address_number"})
	assert.Equal(t, "address_number", roles[RoleSender])
	assert.Equal(t, "address_number", roles[RolePhone])
}
