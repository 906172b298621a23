package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishTaskIDIsStablePerPost(t *testing.T) {
	assert.Equal(t, "publish:post:42", PublishTaskID(42))
	assert.Equal(t, PublishTaskID(42), PublishTaskID(42))
	assert.NotEqual(t, PublishTaskID(42), PublishTaskID(43))
}
