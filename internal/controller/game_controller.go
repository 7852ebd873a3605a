package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/fen"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err)
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(gameState)
}

// LegalMoves answers GET /:gameId/moves?from=e2 with the destination labels.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from, err := model.ParseSquare(c.Query("from"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	squares, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	labels := make([]string, 0, len(squares))
	for _, sq := range squares {
		labels = append(labels, sq.String())
	}
	return c.JSON(fiber.Map{
		"from":  from.String(),
		"moves": labels,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var payload ws.MovePayload
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}
	move, err := parseMove(payload)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	if err := gc.gameService.HandleMove(gameID, playerID, move); err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(state)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// parseMove translates square labels; malformed labels never reach the game.
func parseMove(p ws.MovePayload) (model.MoveRequest, error) {
	from, err := model.ParseSquare(p.From)
	if err != nil {
		return model.MoveRequest{}, err
	}
	to, err := model.ParseSquare(p.To)
	if err != nil {
		return model.MoveRequest{}, err
	}
	return model.MoveRequest{From: from, To: to}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidSquare), errors.Is(err, fen.ErrInvalidFEN):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrAlreadyQueued), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove), errors.Is(err, model.ErrNoPiece):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
