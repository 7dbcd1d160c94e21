package openai

import (
	"encoding/base64"
	"fmt"
)

func (c *Client) isOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateOpen
}

// SendAudio appends raw audio bytes to the input buffer. Bytes are passed
// through base64 untouched; the call is a no-op with a warning when no
// connection is open.
func (c *Client) SendAudio(audio []byte) error {
	if !c.isOpen() {
		logger.Warn("dropping audio frame: realtime connection not open")
		return nil
	}

	frame := inputAudioAppendEvent{
		clientEvent: newClientEvent("input_audio_buffer.append"),
		Audio:       base64.StdEncoding.EncodeToString(audio),
	}
	if err := c.writeJSON(frame); err != nil {
		return fmt.Errorf("failed to append input audio: %w", err)
	}
	return nil
}

// CommitAudio signals the end of an audio turn.
func (c *Client) CommitAudio() error {
	if err := c.writeJSON(newClientEvent("input_audio_buffer.commit")); err != nil {
		return fmt.Errorf("failed to commit input audio: %w", err)
	}
	return nil
}

// SendFunctionResult delivers the output of an executed function call and
// asks the server to resume generation.
func (c *Client) SendFunctionResult(callID, output string) error {
	item := conversationItemCreateEvent{
		clientEvent: newClientEvent("conversation.item.create"),
		Item: conversationItem{
			Type:   "function_call_output",
			CallID: callID,
			Output: output,
		},
	}
	if err := c.writeJSON(item); err != nil {
		return fmt.Errorf("failed to send function result: %w", err)
	}

	if err := c.writeJSON(responseCreateEvent{clientEvent: newClientEvent("response.create")}); err != nil {
		return fmt.Errorf("failed to resume generation: %w", err)
	}
	return nil
}
