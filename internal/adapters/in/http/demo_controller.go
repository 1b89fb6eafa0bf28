package http

import (
	"fmt"
	"net/http"

	"bookstore/internal/adapters/in/http/session"
	"bookstore/internal/core/application/usecases/commands"
	"bookstore/internal/core/domain/model/bookstore"

	"github.com/labstack/echo/v4"
)

// SampleUser is the fixed user the demo Login actions sign in.
const SampleUser = "SampleUser"

// DemoController exposes a few fixed actions that show the engine working
// inside the request's unit of work.
type DemoController struct {
	engine   CommandExecutor
	sessions *session.Manager
}

func NewDemoController(engine CommandExecutor, sessions *session.Manager) *DemoController {
	return &DemoController{engine: engine, sessions: sessions}
}

func (d *DemoController) Register(g *echo.Group) {
	g.GET("/HelloRhetos", d.HelloRhetos)
	g.GET("/ReadBooks", d.ReadBooks)
	g.GET("/WriteBook", d.WriteBook)
	g.GET("/Login", d.Login)
}

// HelloRhetos describes the engine.
func (d *DemoController) HelloRhetos(c echo.Context) error {
	return c.String(http.StatusOK, d.engine.String())
}

// ReadBooks counts the books without loading them.
func (d *DemoController) ReadBooks(c echo.Context) error {
	count, err := countBooks(c, d.engine)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, fmt.Sprintf("%d books.", count))
}

// WriteBook inserts a book titled "NewBook" and commits the request's unit of
// work.
func (d *DemoController) WriteBook(c echo.Context) error {
	uow, err := UnitOfWorkFrom(c)
	if err != nil {
		return err
	}

	book, err := bookstore.NewBook("NewBook")
	if err != nil {
		return err
	}
	cmd, err := commands.NewSaveCommand(bookstore.BookDataSource, commands.Insert(book))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := d.engine.Execute(ctx, uow, cmd); err != nil {
		return err
	}
	if err := uow.CommitAndClose(ctx); err != nil {
		return err
	}
	return c.String(http.StatusOK, "1 book inserted.")
}

// Login signs in SampleUser with a persistent cookie.
func (d *DemoController) Login(c echo.Context) error {
	return signInSampleUser(c, d.sessions)
}

// RhetosController is the minimal controller: describe, count and sign in.
type RhetosController struct {
	engine   CommandExecutor
	sessions *session.Manager
}

func NewRhetosController(engine CommandExecutor, sessions *session.Manager) *RhetosController {
	return &RhetosController{engine: engine, sessions: sessions}
}

func (r *RhetosController) Register(g *echo.Group) {
	g.GET("/HelloRhetos", r.HelloRhetos)
	g.GET("/ReadBooks", r.ReadBooks)
	g.GET("/Login", r.Login)
}

func (r *RhetosController) HelloRhetos(c echo.Context) error {
	return c.String(http.StatusOK, r.engine.String())
}

func (r *RhetosController) ReadBooks(c echo.Context) error {
	count, err := countBooks(c, r.engine)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, fmt.Sprintf("%d books.", count))
}

func (r *RhetosController) Login(c echo.Context) error {
	return signInSampleUser(c, r.sessions)
}

func countBooks(c echo.Context, engine CommandExecutor) (int64, error) {
	uow, err := UnitOfWorkFrom(c)
	if err != nil {
		return 0, err
	}
	cmd, err := commands.NewReadCommand(bookstore.BookDataSource, commands.WithoutRecords())
	if err != nil {
		return 0, err
	}

	results, err := engine.Execute(c.Request().Context(), uow, cmd)
	if err != nil {
		return 0, err
	}
	return *results[0].Read.TotalCount, nil
}

func signInSampleUser(c echo.Context, sessions *session.Manager) error {
	if err := sessions.SignIn(c, SampleUser, true); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
