package entities

import (
	"testing"

	domainerrors "creatorhub/contexts/community-experience/media-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyContent(t *testing.T) {
	kind, err := ClassifyContent("image/png")
	require.NoError(t, err)
	assert.Equal(t, KindImage, kind)

	kind, err = ClassifyContent("Video/MP4; codecs=avc1")
	require.NoError(t, err)
	assert.Equal(t, KindVideo, kind)

	_, err = ClassifyContent("application/pdf")
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedType)
}

func TestClassifyAvatarRejectsVideo(t *testing.T) {
	_, err := ClassifyAvatar("video/mp4")
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedType)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "abc.jpg", ObjectName("abc", "holiday.jpg"))
	assert.Equal(t, "abc.MOV", ObjectName("abc", `C:\clips\feet.MOV`))
	assert.Equal(t, "abc", ObjectName("abc", "noext"))
	assert.Equal(t, "abc", ObjectName("abc", "evil.ph p"))
	assert.Equal(t, "abc", ObjectName("abc", "x.averyverylongext"))
}
