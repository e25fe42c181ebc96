package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"swapi/internal/domain/entity"
	"swapi/internal/domain/repository"
	"swapi/pkg/errors"
	"swapi/pkg/logger"
)

const demoPassword = "123456"

// SeedUseCase fills empty collections with demo data for development.
type SeedUseCase struct {
	userRepo        repository.UserRepository
	publicationRepo repository.PublicationRepository
	chatRepo        repository.ChatRepository
	now             func() time.Time
}

func NewSeedUseCase(
	userRepo repository.UserRepository,
	publicationRepo repository.PublicationRepository,
	chatRepo repository.ChatRepository,
) *SeedUseCase {
	return &SeedUseCase{
		userRepo:        userRepo,
		publicationRepo: publicationRepo,
		chatRepo:        chatRepo,
		now:             time.Now,
	}
}

// Seed inserts the demo users, publications and conversation. Demo users are
// added when their email is not registered; publications and conversations
// only while their collection is empty. Running it twice is safe.
func (uc *SeedUseCase) Seed(ctx context.Context) error {
	now := uc.now()

	joana := &entity.User{
		ID:            uuid.NewString(),
		Name:          "Joana Solis",
		Email:         "joana@swapi.com",
		Password:      demoPassword,
		Photo:         "https://i.pravatar.cc/150?img=1",
		Rating:        4.8,
		ExchangeCount: 5,
		RegisteredAt:  now,
	}
	juan := &entity.User{
		ID:            uuid.NewString(),
		Name:          "Juan Pérez",
		Email:         "juan@swapi.com",
		Password:      demoPassword,
		Photo:         "https://i.pravatar.cc/150?img=12",
		Rating:        4.5,
		ExchangeCount: 3,
		RegisteredAt:  now,
	}

	// Demo users are looked up by email so listings always point at a
	// stored user; missing ones are created.
	seeded := 0
	for _, demo := range []**entity.User{&joana, &juan} {
		existing, err := uc.userRepo.GetByEmail(ctx, (*demo).Email)
		switch {
		case err == nil:
			*demo = existing
		case errors.Is(err, errors.CodeNotFound):
			if err := uc.userRepo.Create(ctx, *demo); err != nil {
				return err
			}
			seeded++
		default:
			return err
		}
	}
	if seeded > 0 {
		logger.Info("Seeded %d demo users", seeded)
	}

	if err := uc.seedPublications(ctx, joana, juan, now); err != nil {
		return err
	}
	return uc.seedConversation(ctx, joana, juan, now)
}

func (uc *SeedUseCase) seedPublications(ctx context.Context, joana, juan *entity.User, now time.Time) error {
	publications, err := uc.publicationRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(publications) > 0 {
		return nil
	}

	demo := []*entity.Publication{
		{
			UserID:      joana.ID,
			UserName:    joana.Name,
			UserPhoto:   joana.Photo,
			Type:        entity.PublicationTypeProduct,
			Category:    "hogar",
			Title:       "Piscina 3x2 x 50",
			Description: "Ofrezco piscina en perfecto estado a cambio de una amaca. Sin bomba, poco uso.",
			Photo:       "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400",
		},
		{
			UserID:      juan.ID,
			UserName:    juan.Name,
			UserPhoto:   juan.Photo,
			Type:        entity.PublicationTypeService,
			Category:    "bienestar",
			Title:       "Sesiones de Reiki",
			Description: "Ofrezco 6 sesiones de terapias de Reiki. Garantizo relajación, alivio y claridad mental. Te guío en tu proceso.",
			Photo:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=400",
		},
		{
			UserID:      joana.ID,
			UserName:    joana.Name,
			UserPhoto:   joana.Photo,
			Type:        entity.PublicationTypeProduct,
			Category:    "hogar",
			Title:       "Kit de asado y jardinería",
			Description: "Tula: Se ofrece Kit de asado a cambio de Kit de jardinería",
			Photo:       "https://images.unsplash.com/photo-1607860108855-64acf2078ed9?w=400",
		},
	}

	// Create prepends, so insert in reverse to keep the listed order.
	for i := len(demo) - 1; i >= 0; i-- {
		p := demo[i]
		p.ID = uuid.NewString()
		p.CreatedAt = now
		p.Active = true
		if err := uc.publicationRepo.Create(ctx, p); err != nil {
			return err
		}
	}
	logger.Info("Seeded %d demo publications", len(demo))
	return nil
}

func (uc *SeedUseCase) seedConversation(ctx context.Context, joana, juan *entity.User, now time.Time) error {
	conversations, err := uc.chatRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(conversations) > 0 {
		return nil
	}

	var publicationID string
	publications, err := uc.publicationRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range publications {
		if p.UserID == joana.ID && p.Title == "Piscina 3x2 x 50" {
			publicationID = p.ID
			break
		}
	}

	lines := []struct {
		from, to *entity.User
		body     string
		ago      time.Duration
	}{
		{joana, juan, "Buenas tardes Jano, tengo una amaca en buen estado para permutarle.", 300 * time.Second},
		{juan, joana, "¿Aún tienes la piscina?", 240 * time.Second},
		{joana, juan, "Hola vecina, si, aún la tengo!", 180 * time.Second},
		{joana, juan, "Quisiera venir a verla?", 120 * time.Second},
		{juan, joana, "Ya pues! Tipo 6pm podría ir. Ud vive en el edificio esquina de Orindo Diaz?", 60 * time.Second},
		{joana, juan, "Correcto! Hablemos pronto para coordinar hasta pronto!", 30 * time.Second},
		{juan, joana, "Ok, gracias", 0},
	}

	lastAt := now
	conversation, _, err := uc.chatRepo.FindOrCreate(ctx,
		func(c *entity.Conversation) bool { return c.IsBetween(joana.ID, juan.ID) },
		func() *entity.Conversation {
			return &entity.Conversation{
				ID: uuid.NewString(),
				Participants: []entity.Participant{
					{UserID: joana.ID, UserName: joana.Name, UserPhoto: joana.Photo},
					{UserID: juan.ID, UserName: juan.Name, UserPhoto: juan.Photo},
				},
				PublicationID: publicationID,
				LastMessage:   "Hola vecina, si, aún la tengo!",
				LastMessageAt: &lastAt,
				UnreadCount:   0,
			}
		},
	)
	if err != nil {
		return err
	}

	for i, line := range lines {
		message := &entity.ChatMessage{
			ID:             uuid.NewString(),
			ConversationID: conversation.ID,
			SenderID:       line.from.ID,
			SenderName:     line.from.Name,
			ReceiverID:     line.to.ID,
			Body:           line.body,
			Timestamp:      now.Add(-line.ago),
			Read:           i < len(lines)-1,
		}
		if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
			return err
		}
	}
	logger.Info("Seeded demo conversation %s with %d messages", conversation.ID, len(lines))
	return nil
}
