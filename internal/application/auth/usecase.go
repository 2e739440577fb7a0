package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
	"github.com/jhoicas/grocery-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

const minPasswordLen = 6

// dummyHash se compara cuando el usuario no existe para que el tiempo de respuesta no revele
// qué nombres de usuario están registrados.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("grocery-dummy-password"), bcrypt.DefaultCost)

// AuthUseCase casos de uso de identidad: registro, login y aprobación de gerentes.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// SignupUser registra un cliente; queda aprobado de inmediato.
func (uc *AuthUseCase) SignupUser(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	return uc.signup(ctx, in, entity.RoleUser, entity.StatusApproved)
}

// SignupManager registra un gerente de tienda; queda pendiente hasta que un admin lo apruebe.
func (uc *AuthUseCase) SignupManager(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	return uc.signup(ctx, in, entity.RoleManager, entity.StatusPending)
}

func (uc *AuthUseCase) signup(ctx context.Context, in dto.SignupRequest, role, status string) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
		LastActivity: now,
		CreatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica credenciales contra el rol esperado por el endpoint, actualiza last_activity y emite el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, role string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Role != role {
		return nil, domain.ErrInvalidCredentials
	}
	switch user.Status {
	case entity.StatusPending:
		return nil, domain.ErrPendingApproval
	case entity.StatusRejected:
		return nil, domain.ErrForbidden
	}
	if err := uc.userRepo.TouchLastActivity(ctx, user.ID, uc.now()); err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{AccessToken: token}, nil
}

// ListPendingManagers lista las cuentas de gerente que esperan aprobación.
func (uc *AuthUseCase) ListPendingManagers(ctx context.Context) ([]dto.ManagerAccountResponse, error) {
	users, err := uc.userRepo.ListByRole(ctx, entity.RoleManager, entity.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ManagerAccountResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ManagerAccountResponse{ID: u.ID, Username: u.Username, Status: u.Status})
	}
	return out, nil
}

// ApproveManager aprueba la cuenta de un gerente.
func (uc *AuthUseCase) ApproveManager(ctx context.Context, id int64) error {
	return uc.setManagerStatus(ctx, id, entity.StatusApproved)
}

// RejectManager rechaza la cuenta de un gerente. Un gerente rechazado pierde el acceso en su próxima petición.
func (uc *AuthUseCase) RejectManager(ctx context.Context, id int64) error {
	return uc.setManagerStatus(ctx, id, entity.StatusRejected)
}

func (uc *AuthUseCase) setManagerStatus(ctx context.Context, id int64, status string) error {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil || user.Role != entity.RoleManager {
		return domain.ErrUserNotFound
	}
	return uc.userRepo.UpdateStatus(ctx, id, status)
}

// ProvisionAdmin crea o actualiza la cuenta de administrador. Es el único camino para crear admins.
// Devuelve true si la cuenta se creó.
func (uc *AuthUseCase) ProvisionAdmin(ctx context.Context, username, password, email string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLen {
		return false, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			return false, domain.ErrUsernameTaken
		}
		existing.PasswordHash = string(hash)
		existing.Email = email
		existing.Status = entity.StatusApproved
		return false, uc.userRepo.Update(ctx, existing)
	}
	now := uc.now()
	admin := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		Status:       entity.StatusApproved,
		LastActivity: now,
		CreatedAt:    now,
	}
	return true, uc.userRepo.Create(ctx, admin)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Status:       u.Status,
		LastActivity: u.LastActivity,
	}
}
