package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/minimax-chess/internal/chess"
	"github.com/benbeisheim/minimax-chess/internal/middleware"
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var opts service.CreateOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	gameID, err := gc.gameService.CreateGame(middleware.PlayerID(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	removed := gc.gameService.LeaveMatchmaking(middleware.PlayerID(c))
	return c.JSON(fiber.Map{
		"removed": removed,
	})
}

// LegalMoves lists the destinations of the piece on ?square=.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	sq, err := chess.ParseSquare(c.Query("square"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	dests, err := gc.gameService.LegalDestinations(c.Params("gameId"), sq)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"square":       sq,
		"destinations": dests,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		return badRequest(c, "invalid move: "+err.Error())
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), move)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) NewGame(c *fiber.Ctx) error {
	state, err := gc.gameService.NewGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) ConfigureAI(c *fiber.Ctx) error {
	var settings model.AISettings
	if err := c.BodyParser(&settings); err != nil {
		return badRequest(c, "invalid settings")
	}

	state, err := gc.gameService.ConfigureAI(c.Params("gameId"), middleware.PlayerID(c), settings)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

// Hint suggests a move for the side to move, searching ?depth= plies.
func (gc *GameController) Hint(c *fiber.Ctx) error {
	depth := 0
	if raw := c.Query("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "depth must be a number")
		}
		depth = d
	}

	hint, err := gc.gameService.Hint(c.Params("gameId"), depth)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(hint)
}

func (gc *GameController) History(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "index must be a number")
	}

	snap, err := gc.gameService.Snapshot(c.Params("gameId"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}
