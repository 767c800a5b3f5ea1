package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/house-tournament/config"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

// EventPublisher рассылает снимки изменений подписчикам (WebSocket hub).
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// Clock - источник времени для отметок started_at / completed_at.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func validateDate(date string) error {
	if _, err := time.Parse(config.DateLayout, date); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidDate, date)
	}
	return nil
}

func validateCategory(c models.Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidCategory, c)
	}
	return nil
}

// mapRepoError переводит ошибки репозиториев в ошибки сервисного слоя.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrHouseNotFound),
		errors.Is(err, repositories.ErrTeamHouseInvalid),
		errors.Is(err, repositories.ErrSpiritHouseInvalid):
		return ErrHouseNotFound
	case errors.Is(err, repositories.ErrTableNotFound),
		errors.Is(err, repositories.ErrMatchTableInvalid):
		return ErrTableNotFound
	case errors.Is(err, repositories.ErrTeamTableAssignmentNotFound):
		return ErrTablePreferenceNotFound
	case errors.Is(err, repositories.ErrConcurrentUpdate),
		errors.Is(err, repositories.ErrMatchVersionConflict),
		errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repositories.ErrReferenceInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}

func houseNames(houses []*models.House) map[int]*models.House {
	byID := make(map[int]*models.House, len(houses))
	for _, h := range houses {
		byID[h.ID] = h
	}
	return byID
}

func teamHouses(teams []*models.Team) map[int]int {
	m := make(map[int]int, len(teams))
	for _, t := range teams {
		m[t.ID] = t.HouseID
	}
	return m
}

// attachTablePreferences раскладывает предпочтения столов по командам.
func attachTablePreferences(teams []*models.Team, prefs []*models.TeamTableAssignment) {
	byTeam := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		byTeam[t.ID] = t
	}
	for _, p := range prefs {
		t, ok := byTeam[p.TeamID]
		if !ok {
			continue
		}
		if t.TablePreferences == nil {
			t.TablePreferences = make(map[models.Category]int)
		}
		t.TablePreferences[p.Category] = p.TableID
	}
}
