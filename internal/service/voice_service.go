// Package service provides the business logic layer for the voice catalog.
package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/speakturbo/speakturbo/internal/api"
	"github.com/speakturbo/speakturbo/internal/cache"
	"github.com/speakturbo/speakturbo/internal/voice"
)

// VoiceService manages the voice catalog: fetched from the daemon when it is
// reachable, served from the disk cache otherwise, with the built-in list as
// the last resort.
type VoiceService struct {
	apiClient  *api.Client
	voiceCache *cache.Cache
	catalog    *voice.Catalog
	mu         sync.RWMutex
}

// NewVoiceService creates a VoiceService with the given API client.
func NewVoiceService(apiClient *api.Client) *VoiceService {
	voiceCache, err := cache.NewCache()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize voice cache, catalog will not be cached")
	}

	return &VoiceService{
		apiClient:  apiClient,
		voiceCache: voiceCache,
	}
}

// GetCatalog returns the voice catalog. The daemon is the source of truth;
// the cache and the built-in list only cover daemon downtime.
func (s *VoiceService) GetCatalog(ctx context.Context) *voice.Catalog {
	s.mu.RLock()
	if s.catalog != nil {
		catalog := s.catalog
		s.mu.RUnlock()
		return catalog
	}
	s.mu.RUnlock()

	health, err := s.apiClient.Health(ctx)
	if err == nil && len(health.Voices) > 0 {
		catalog := &voice.Catalog{Voices: health.Voices}
		s.store(catalog)

		if s.voiceCache != nil {
			if err := s.voiceCache.SaveVoices(catalog); err != nil {
				log.Debug().Err(err).Msg("Failed to cache voice catalog")
			}
		}
		return catalog
	}

	log.Debug().Err(err).Msg("Voice catalog unavailable from daemon, trying cache")

	if s.voiceCache != nil {
		if catalog := s.voiceCache.GetVoices(); catalog != nil {
			s.store(catalog)
			return catalog
		}
	}

	catalog := &voice.Catalog{Voices: voice.BuiltinVoices}
	s.store(catalog)
	return catalog
}

// ResolveVoice picks a usable voice name for synthesis.
func (s *VoiceService) ResolveVoice(ctx context.Context, requested string) string {
	return s.GetCatalog(ctx).Pick(requested)
}

func (s *VoiceService) store(catalog *voice.Catalog) {
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
}
