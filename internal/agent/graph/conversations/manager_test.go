package conversations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/agent/repo"
)

func newManager(maxTurns int) (*MessagesManager, *repo.MemoryConversationRepository) {
	r := repo.NewMemoryConversationRepository(time.Hour, 0)
	return NewMessagesManager(r, model.ConversationConfig{MaxTurns: maxTurns}), r
}

func TestBuildResponseContext(t *testing.T) {
	ctx := context.Background()
	mm, _ := newManager(10)

	require.NoError(t, mm.AddUserMessage(ctx, "c", "Xin chào"))
	require.NoError(t, mm.SaveResponse(ctx, "c", "Chào bạn, hãy cho tôi ngày sinh."))
	require.NoError(t, mm.AddUserMessage(ctx, "c", "1/1/1990 lúc 0 giờ"))

	msgs, err := mm.BuildResponseContext(ctx, "c", "SYSTEM")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "SYSTEM", msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, schema.Assistant, msgs[2].Role)
	assert.Equal(t, "1/1/1990 lúc 0 giờ", msgs[3].Content)
}

func TestBuildResponseContextWindow(t *testing.T) {
	ctx := context.Background()
	mm, _ := newManager(4)
	for i := 0; i < 5; i++ {
		require.NoError(t, mm.AddUserMessage(ctx, "c", fmt.Sprintf("q%d", i)))
		require.NoError(t, mm.SaveResponse(ctx, "c", fmt.Sprintf("a%d", i)))
	}
	require.NoError(t, mm.AddUserMessage(ctx, "c", "q5"))

	msgs, err := mm.BuildResponseContext(ctx, "c", "SYSTEM")
	require.NoError(t, err)
	// The last four are a3 q4 a4 q5; the leading assistant turn is dropped.
	require.Len(t, msgs, 4)
	assert.Equal(t, "q4", msgs[1].Content)
	assert.Equal(t, "a4", msgs[2].Content)
	assert.Equal(t, "q5", msgs[3].Content)
}

func TestAddUserMessageValidation(t *testing.T) {
	ctx := context.Background()
	mm, r := newManager(4)
	assert.Error(t, mm.AddUserMessage(ctx, "", "hi"))
	assert.Error(t, mm.AddUserMessage(ctx, "c", "   "))
	n, err := r.GetMessageCount(ctx, "c")
	require.NoError(t, err)
	assert.Zero(t, n)
}
