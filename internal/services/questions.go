package services

// QuestionKeys is the canonical 30-item inventory. The order matches the
// training dataset of the predictor (EXT1-10, CSN1-10, AGR1-10) and
// defines the ordered answer array sent to it; question texts are the
// keys clients answer by.
var QuestionKeys = []string{
	"Soy el alma de la fiesta",
	"No hablo mucho",
	"Me siento cómodo rodeado de muchas personas",
	"Prefiero mantenerme en segundo plano (intento no destacar)",
	"Inicio conversaciones",
	"Tengo poco que decir",
	"Le hablo a muchas personas en fiestas",
	"No me gusta llamar la atención",
	"No me molesta ser el centro de atención",
	"Soy callado cuando estoy con desconocidos",
	"Siempre estoy preparado",
	"Dejo mis pertenencias por todos lados",
	"Pongo atención a los detalles",
	"Desordeno las cosas",
	"Hago mis tareas de inmediato",
	"A menudo olvido regresar las cosas a su lugar",
	"Me gusta el orden",
	"Evito cumplir con mis deberes",
	"Sigo una agenda",
	"Soy exigente con mi trabajo",
	"Siento preocupación por los demás",
	"Me intereso por las personas",
	"Insulto a las personas",
	"Simpatizo con los sentimientos de los demás",
	"No me interesan los problemas de los demás",
	"Tengo un corazón sensible",
	"Realmente no me intereso por los demás",
	"Dedico tiempo a los demás",
	"Siento las emociones de los demás",
	"Hago que las personas se sientan cómodas",
}
