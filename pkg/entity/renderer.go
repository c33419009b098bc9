package entity

// Renderer draws aircraft. Presentation backends implement it.
type Renderer interface {
	RenderAircraft(aircraft *Aircraft)
	RenderEscort(escort *Escort)
	Clear()
	Present()
}
