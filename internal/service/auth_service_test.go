package service_test

import (
	"context"
	"testing"

	"obraflow/internal/config"
	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"
	"obraflow/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubUsuarioRepo mirrors the real repo's contract, including the
// activo-only filter on FindByUsername.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func authFixture() (service.AuthService, *stubUsuarioRepo) {
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func TestLogin_CredencialesValidas(t *testing.T) {
	svc, _ := authFixture()

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria",
		Nombre:   "María Pérez",
		Password: "segura123",
		Rol:      model.RolSolicitante,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "segura123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, model.RolSolicitante, resp.User.Rol)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	svc, _ := authFixture()

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria",
		Nombre:   "María Pérez",
		Password: "segura123",
		Rol:      model.RolSolicitante,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "otra"})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestLogin_UsuarioDesactivado(t *testing.T) {
	svc, repo := authFixture()

	creado, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "pedro",
		Nombre:   "Pedro Gómez",
		Password: "segura123",
		Rol:      model.RolAdministrador,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(context.Background(), uuid.MustParse(creado.ID)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "pedro", Password: "segura123"})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestRefresh_EmiteNuevosTokens(t *testing.T) {
	svc, _ := authFixture()

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "maria",
		Nombre:   "María Pérez",
		Password: "segura123",
		Rol:      model.RolSolicitante,
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "segura123"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, login.User.ID, renovado.User.ID)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _ := authFixture()

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.ErrorContains(t, err, "refresh token invalido")
}

func TestListarUsuarios_FiltraInactivos(t *testing.T) {
	svc, repo := authFixture()

	a, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "ana", Nombre: "Ana", Password: "segura123", Rol: model.RolAdministrador,
	})
	require.NoError(t, err)
	_, err = svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "luis", Nombre: "Luis", Password: "segura123", Rol: model.RolSolicitante,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(context.Background(), uuid.MustParse(a.ID)))

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
