package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags_AddDeduplicatesAndKeepsOrder(t *testing.T) {
	tags := Tags{"music", "food"}

	assert.Equal(t, Tags{"music", "food"}, tags.Add("music"))
	assert.Equal(t, Tags{"music", "food", "dance"}, tags.Add("dance"))
	assert.Equal(t, Tags{"music", "food"}, tags.Add("   "))
	assert.Equal(t, Tags{"music", "food", "art"}, tags.Add("  art "))
	assert.Equal(t, Tags{"music", "food"}, tags, "receiver is not modified")
}

func TestTags_Remove(t *testing.T) {
	tags := Tags{"music", "food", "dance"}
	assert.Equal(t, Tags{"music", "dance"}, tags.Remove("food"))
	assert.Equal(t, Tags{"music", "food", "dance"}, tags.Remove("none"))
}

func TestTags_Normalize(t *testing.T) {
	assert.Equal(t, Tags{"a", "b"}, Tags{" a", "b", "", "a"}.Normalize())
	assert.Equal(t, Tags{}, Tags(nil).Normalize())
}
