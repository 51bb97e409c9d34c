package extraction

import (
	"fmt"
	"sort"
)

// Templates are ready-made job descriptions selectable by name.
var Templates = map[string]string{
	"Senior Python Dev": `Senior Python Developer - 5+ years

Required:
- 5+ years Python
- FastAPI/Django/Flask
- AWS (Lambda, EC2, S3)
- Docker, Kubernetes
- PostgreSQL/MongoDB
- CI/CD pipelines

Responsibilities:
- Design scalable backends
- Lead architecture
- Mentor developers
- Production deployment`,

	"Data Scientist": `Data Scientist - ML Focus

Required:
- 3+ years ML/AI
- Python (NumPy, Pandas, Scikit-learn)
- TensorFlow/PyTorch
- SQL, data warehousing
- Statistical analysis
- Gen AI experience (plus)

Responsibilities:
- Build ML models
- Large-scale data analysis
- A/B testing`,

	"DevOps Engineer": `DevOps Engineer - Cloud Infrastructure

Required:
- 4+ years DevOps
- AWS/Azure/GCP
- Terraform, Ansible
- Docker, Kubernetes
- CI/CD (Jenkins, GitLab)
- Monitoring (Prometheus, Grafana)

Responsibilities:
- Infrastructure automation
- Pipeline optimization
- System reliability`,
}

// TemplateNames returns the template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template returns the job description registered under name.
func Template(name string) (string, error) {
	jd, ok := Templates[name]
	if !ok {
		return "", fmt.Errorf("unknown job description template %q (available: %v)", name, TemplateNames())
	}
	return jd, nil
}
