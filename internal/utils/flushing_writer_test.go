package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghpublish/internal/utils"
)

func TestFlushingWriterFlushesBufferedOutput(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)

	writer := utils.NewFlushingWriter(bufferedWriter)
	bytesWritten, writeError := writer.Write([]byte("Repository name: "))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 17, bytesWritten)
	require.Equal(testInstance, "Repository name: ", destination.String())

	require.Same(testInstance, writer, utils.NewFlushingWriter(writer))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
