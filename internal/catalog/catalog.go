// Package catalog holds the static reference data the booking wizard selects
// from: medical departments, their doctors, and each doctor's appointment
// slot labels. The catalog is immutable after construction.
package catalog

// Doctor is a bookable specialist within a department.
type Doctor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	Rating         float64  `json:"rating"`
	Experience     string   `json:"experience"`
	AvailableSlots []string `json:"available_slots"`
}

// HasSlot reports whether label is one of the doctor's available slots.
func (d *Doctor) HasSlot(label string) bool {
	for _, slot := range d.AvailableSlots {
		if slot == label {
			return true
		}
	}
	return false
}

// Department groups the doctors for one medical specialty.
type Department struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Doctors     []Doctor `json:"doctors"`
}

// Catalog is the read-only department directory. Lookups never mutate it, so
// a single instance is safe to share across goroutines.
type Catalog struct {
	departments []Department
	deptByID    map[string]*Department
}

// New builds a catalog from the given departments. Department and doctor
// order is preserved for display.
func New(departments []Department) *Catalog {
	c := &Catalog{
		departments: departments,
		deptByID:    make(map[string]*Department, len(departments)),
	}
	for i := range c.departments {
		c.deptByID[c.departments[i].ID] = &c.departments[i]
	}
	return c
}

// Departments returns all departments in display order.
func (c *Catalog) Departments() []Department {
	return c.departments
}

// FindDepartment looks up a department by id.
func (c *Catalog) FindDepartment(id string) (*Department, bool) {
	dept, ok := c.deptByID[id]
	return dept, ok
}

// FindDoctor looks up a doctor by id within the given department.
func (c *Catalog) FindDoctor(departmentID, doctorID string) (*Doctor, bool) {
	dept, ok := c.deptByID[departmentID]
	if !ok {
		return nil, false
	}
	for i := range dept.Doctors {
		if dept.Doctors[i].ID == doctorID {
			return &dept.Doctors[i], true
		}
	}
	return nil, false
}
