// Package pixoo mirrors the round display onto a Divoom Pixoo64.
//
// The Pixoo64 has a local HTTP API at port 80.
// Endpoint: POST http://<ip>/post
//
// Frame format:
// - 64x64 pixels
// - RGB (3 bytes per pixel)
// - Base64 encoded
package pixoo

import (
	"encoding/base64"
	"image"

	"golang.org/x/image/draw"

	"github.com/jwulff/roundel/internal/domain"
)

// MirrorSize is the Pixoo64 edge length.
const MirrorSize = 64

// maxPicID is the last animation id the device accepts before it must be reset.
const maxPicID = 32

// Command is a bare Pixoo API command.
type Command struct {
	Command string `json:"Command"`
}

// FrameCommand represents a Draw/SendHttpGif command.
type FrameCommand struct {
	Command   string `json:"Command"`
	PicNum    int    `json:"PicNum"`
	PicWidth  int    `json:"PicWidth"`
	PicOffset int    `json:"PicOffset"`
	PicID     int    `json:"PicID"`
	PicSpeed  int    `json:"PicSpeed"`
	PicData   string `json:"PicData"`
}

// BrightnessCommand represents a Channel/SetBrightness command.
type BrightnessCommand struct {
	Command    string `json:"Command"`
	Brightness int    `json:"Brightness"`
}

// Downscale resamples a frame to size x size.
func Downscale(frame *domain.Frame, size int) *domain.Frame {
	if frame.Width == size && frame.Height == size {
		return frame.Clone()
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	src := frame.ToImage()
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return domain.FrameFromImage(dst)
}

// EncodeFrameToBase64 encodes frame pixels to base64 for the Pixoo API.
func EncodeFrameToBase64(frame *domain.Frame) string {
	return base64.StdEncoding.EncodeToString(frame.Pixels)
}

// CreateFrameCommand creates a single-picture Draw/SendHttpGif command.
// A picID outside 1..32 is clamped.
func CreateFrameCommand(frame *domain.Frame, picID int) FrameCommand {
	if picID < 1 {
		picID = 1
	}
	if picID > maxPicID {
		picID = maxPicID
	}

	return FrameCommand{
		Command:   "Draw/SendHttpGif",
		PicNum:    1,
		PicWidth:  frame.Width,
		PicOffset: 0,
		PicID:     picID,
		PicSpeed:  1000,
		PicData:   EncodeFrameToBase64(frame),
	}
}

// CreateResetGifIDCommand creates a Draw/ResetHttpGifId command.
func CreateResetGifIDCommand() Command {
	return Command{Command: "Draw/ResetHttpGifId"}
}

// CreateDeviceTimeCommand creates a Device/GetDeviceTime command.
func CreateDeviceTimeCommand() Command {
	return Command{Command: "Device/GetDeviceTime"}
}

// CreateBrightnessCommand creates a Channel/SetBrightness command.
func CreateBrightnessCommand(brightness int) BrightnessCommand {
	// Clamp to 0-100
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}

	return BrightnessCommand{
		Command:    "Channel/SetBrightness",
		Brightness: brightness,
	}
}
