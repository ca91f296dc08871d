package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFeed_SuccessAndError(t *testing.T) {
	feed := NewFeed(zap.NewNop())

	feed.Success("Product Added")
	feed.Error("Connection Lost")

	pending := feed.Drain()
	assert.Len(t, pending, 2)
	assert.Equal(t, LevelSuccess, pending[0].Level)
	assert.Equal(t, "Product Added", pending[0].Message)
	assert.Equal(t, LevelError, pending[1].Level)
	assert.Equal(t, "Connection Lost", pending[1].Message)
	assert.False(t, pending[0].CreatedAt.IsZero())
}

func TestFeed_DrainClears(t *testing.T) {
	feed := NewFeed(zap.NewNop())

	feed.Success("Updated Successfully")
	assert.Len(t, feed.Drain(), 1)

	// Second drain is empty but never nil
	second := feed.Drain()
	assert.NotNil(t, second)
	assert.Empty(t, second)
}

func TestFeed_DropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(zap.NewNop())

	for i := 0; i < defaultFeedCapacity+3; i++ {
		feed.Success(fmt.Sprintf("message %d", i))
	}

	pending := feed.Drain()
	assert.Len(t, pending, defaultFeedCapacity)
	assert.Equal(t, "message 3", pending[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", defaultFeedCapacity+2), pending[len(pending)-1].Message)
}
