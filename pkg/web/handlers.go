package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// handleStatus returns the aggregate dashboard snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.buildStatus())
}

// handleCalibration returns calibration progress.
func (s *Server) handleCalibration(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"active":   s.calibrator.Active(),
		"complete": s.calibrator.Complete(),
		"quota":    s.calibrator.Quota(),
		"points":   s.calibrator.Progress(),
	})
}

// handleCalibrationStart begins a calibration session.
func (s *Server) handleCalibrationStart(c *fiber.Ctx) error {
	s.calibrator.Start()
	s.PushStatus()
	return c.JSON(fiber.Map{"active": true})
}

// handleCalibrationStop exits calibration early.
func (s *Server) handleCalibrationStop(c *fiber.Ctx) error {
	s.calibrator.Stop()
	s.PushStatus()
	return c.JSON(fiber.Map{"active": false})
}

// handleCalibrationClick registers a click on a calibration point.
func (s *Server) handleCalibrationClick(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid point index",
		})
	}

	done, err := s.calibrator.Click(index)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.PushStatus()

	return c.JSON(fiber.Map{
		"complete": done,
		"points":   s.calibrator.Progress(),
	})
}
