package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

const DefaultMaxAudioBytes = 20 << 20

type submitVoiceAnswerHandler struct {
	logger        *logrus.Logger
	service       appAnswer.Service
	maxAudioBytes int64
}

func NewSubmitVoiceAnswerHandler(logger *logrus.Logger, service appAnswer.Service, maxAudioBytes int64) Handler {
	if maxAudioBytes <= 0 {
		maxAudioBytes = DefaultMaxAudioBytes
	}
	return &submitVoiceAnswerHandler{
		logger:        logger,
		service:       service,
		maxAudioBytes: maxAudioBytes,
	}
}

// Handle @Summary Submit a voice answer
// @Description Stores the recording, transcribes it and scores the transcript
// @Tags Answers
// @Accept multipart/form-data
// @Produce json
// @Param question_id formData string true "Question ID"
// @Param user_id formData int true "User ID"
// @Param audio_file formData file true "Recorded answer"
// @Success 201 {object} answer.Answer "Answer stored"
// @Failure 400 {object} map[string]interface{} "Invalid form"
// @Failure 404 {object} map[string]interface{} "User or question not found"
// @Failure 413 {object} map[string]interface{} "Audio too large"
// @Router /api/v1/answers/voice [post]
func (h *submitVoiceAnswerHandler) Handle(c *fiber.Ctx) error {
	questionID, err := uuid.Parse(c.FormValue("question_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid question_id"})
	}
	userID, err := parseUserID(c.FormValue("user_id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	fh, err := c.FormFile("audio_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audio_file is required"})
	}
	if fh.Size > h.maxAudioBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("audio_file exceeds %d bytes", h.maxAudioBytes),
		})
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open uploaded audio")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable audio_file"})
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, h.maxAudioBytes+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable audio_file"})
	}
	if int64(len(audio)) > h.maxAudioBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("audio_file exceeds %d bytes", h.maxAudioBytes),
		})
	}

	req := &request.VoiceAnswerRequest{
		QuestionID:  questionID,
		UserID:      userID,
		Audio:       audio,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	a, err := h.service.SubmitVoiceAnswer(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}
