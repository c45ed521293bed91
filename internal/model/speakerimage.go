package model

import "fmt"

// SpeakerImage tracks the avatar of one speaker, keyed by the speaker id.
// Download state is persisted so that failed or never-attempted downloads
// are retried on later syncs.
type SpeakerImage struct {
	SpeakerID       int    `json:"speaker_id"`
	OriginURL       string `json:"origin_url"`
	Suffix          string `json:"suffix"`
	InAssets        bool   `json:"in_assets"`
	InData          bool   `json:"in_data"`
	DownloadSuccess bool   `json:"download_success"`
	DownloadFailed  bool   `json:"download_failed"`

	// MaxScaleFactor is the highest scaled variant produced: 0 when the
	// origin is smaller than the 96 px threshold, up to 4 for 384 px.
	MaxScaleFactor int `json:"max_scale_factor"`
}

// FileName returns the base file name of the downloaded origin image,
// e.g. "speaker_4711.jpg".
func (si *SpeakerImage) FileName() string {
	return fmt.Sprintf("speaker_%d.%s", si.SpeakerID, si.Suffix)
}

// ScaledFileName returns the file name for a scaled variant. Factor 1
// reuses the base name; higher factors append the @Nx marker.
func (si *SpeakerImage) ScaledFileName(factor int) string {
	if factor <= 1 {
		return si.FileName()
	}
	return fmt.Sprintf("speaker_%d@%dx.%s", si.SpeakerID, factor, si.Suffix)
}

// OriginFileName returns the file name the unscaled download is kept
// under once the scaled variants exist.
func (si *SpeakerImage) OriginFileName() string {
	return fmt.Sprintf("speaker_%d_origin.%s", si.SpeakerID, si.Suffix)
}
