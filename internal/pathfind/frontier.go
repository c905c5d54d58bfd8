package pathfind

import (
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

// frontierItem обертка для элемента очереди приоритетов
type frontierItem struct {
	pos      domain.Position
	priority float64 // g (+ h, если задана эвристика). Чем меньше, тем раньше.
	index    int     // индекс в куче
}

// frontier реализует heap.Interface. Decrease-key делается ленивым
// дублированием: устаревшие записи отбрасываются по closed set.
type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	// MinHeap
	return f[i].priority < f[j].priority
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x interface{}) {
	n := len(*f)
	item := x.(*frontierItem)
	item.index = n
	*f = append(*f, item)
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.index = -1 // для безопасности
	*f = old[0 : n-1]
	return item
}
