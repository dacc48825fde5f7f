package cache

import (
	"sync"
	"time"
)

// entry guarda um valor com seu instante de expiração
type entry struct {
	value      interface{}
	expiration int64
}

// Cache é um cache em memória com TTL, usado para amortecer leituras de perfil
// que disparam recálculo de saldo. A janela de desatualização é aceita pelo
// modelo de consistência do sistema.
type Cache struct {
	entries map[string]entry
	mu      sync.RWMutex
	stop    chan struct{}
}

// New cria um cache cuja limpeza de itens expirados roda no intervalo dado.
func New(janitorInterval time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.deleteExpired()
			case <-c.stop:
				return
			}
		}
	}()

	return c
}

// Set grava um valor com o TTL dado.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
}

// Get retorna o valor e um booleano indicando se ele existe e ainda não expirou.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().UnixNano() > e.expiration {
		return nil, false
	}
	return e.value, true
}

// Delete remove uma chave, usada para invalidar o perfil após uma aprovação.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Close encerra a goroutine de limpeza.
func (c *Cache) Close() {
	close(c.stop)
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixNano()
	for k, e := range c.entries {
		if now > e.expiration {
			delete(c.entries, k)
		}
	}
}
