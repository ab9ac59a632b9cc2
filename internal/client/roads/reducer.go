package roads

import "github.com/iudanet/roadsync/internal/models"

// Reduce вычисляет следующее состояние. Функция чистая: не выполняет I/O,
// не меняет входные срезы и для одинаковых аргументов возвращает одинаковый результат.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

func indexOf(roads []models.Road, id int64) int {
	for i := range roads {
		if roads[i].ID == id {
			return i
		}
	}
	return -1
}

// without возвращает новый срез без записи с указанным ID
func without(roads []models.Road, id int64) []models.Road {
	if indexOf(roads, id) < 0 {
		return roads
	}
	out := make([]models.Road, 0, len(roads)-1)
	for _, r := range roads {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func prepend(road models.Road, roads []models.Road) []models.Road {
	out := make([]models.Road, 0, len(roads)+1)
	out = append(out, road)
	return append(out, roads...)
}

func replaceAt(roads []models.Road, idx int, road models.Road) []models.Road {
	out := make([]models.Road, len(roads))
	copy(out, roads)
	out[idx] = road
	return out
}

// appendMissing добавляет в конец записи, ID которых еще нет в base
func appendMissing(base, incoming []models.Road) []models.Road {
	seen := make(map[int64]struct{}, len(base)+len(incoming))
	out := make([]models.Road, 0, len(base)+len(incoming))
	for _, r := range base {
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	for _, r := range incoming {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r.Clone())
	}
	return out
}
